package sift

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/caomw/SIFT-implementation/utils"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

var (
	// imgFile holds the file being accessed, be it normal file or pipe name.
	imgFile *os.File

	// Common file related variable
	fs os.FileInfo
)

// Ops bundles the source and destination of a detection run together with the
// batch processing options.
type Ops struct {
	Src, Dst, PipeName string
	// FeaturesPath is an optional JSON destination for the detected
	// keypoints and descriptors; it applies to single file sources only.
	FeaturesPath string
	Workers      int
}

// result holds the relevant information about the detection process and the generated image.
type result struct {
	path string
	err  error
}

// Execute executes the keypoint detection process over a file, an URL, a pipe
// or a whole directory tree of images.
func (d *Detector) Execute(op *Ops) {
	var err error
	defaultMsg := fmt.Sprintf("%s %s",
		utils.DecorateText("▲ SIFT", utils.StatusMessage),
		utils.DecorateText("⇢ detecting keypoints (be patient, it may take a while)...", utils.DefaultMessage),
	)
	d.Spinner = utils.NewSpinner(defaultMsg, time.Millisecond*80, true)

	// Supported files
	validExtensions := []string{".jpg", ".png", ".jpeg", ".bmp", ".gif"}

	// Check if source path is a local image or URL.
	if utils.IsValidUrl(op.Src) {
		src, err := utils.DownloadImage(op.Src)
		if src != nil {
			defer os.Remove(src.Name())
		}
		if err != nil {
			log.Fatalf(
				utils.DecorateText("Failed to load the source image: %v", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
		imgFile, err = os.Open(src.Name())
		if err != nil {
			log.Fatalf(
				utils.DecorateText("Unable to open the temporary image file: %v", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
		if fs, err = imgFile.Stat(); err != nil {
			log.Fatalf(
				utils.DecorateText("Unable to stat the temporary image file: %v", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}
	} else {
		// Check if the source is a pipe name or a regular file.
		if op.Src == op.PipeName {
			fs, err = os.Stdin.Stat()
		} else {
			fs, err = os.Stat(op.Src)
		}
	}
	if err != nil {
		log.Fatalf(
			utils.DecorateText("Failed to load the source image: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	now := time.Now()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		// Read destination file or directory.
		if _, err := os.Stat(op.Dst); err != nil {
			if err := os.Mkdir(op.Dst, 0755); err != nil {
				log.Fatalf(
					utils.DecorateText("Unable to create the destination directory: %v\n", utils.ErrorMessage),
					utils.DecorateText(err.Error(), utils.DefaultMessage),
				)
			}
		}

		// Limit the concurrently running workers to maxWorkers.
		if op.Workers <= 0 || op.Workers > maxWorkers {
			op.Workers = runtime.NumCPU()
		}

		// Process the image files from the specified directory concurrently.
		var wg sync.WaitGroup
		ch := make(chan result)
		done := make(chan interface{})
		defer close(done)

		paths, errc := walkDir(done, op.Src, validExtensions)

		wg.Add(op.Workers)
		for i := 0; i < op.Workers; i++ {
			go func() {
				defer wg.Done()
				consumer(done, paths, op.Dst, d, ch)
			}()
		}

		// Close the channel after the values are consumed.
		go func() {
			defer close(ch)
			wg.Wait()
		}()

		// Consume the channel values.
		for res := range ch {
			printStatus(res.path, res.err)
		}

		if err := <-errc; err != nil {
			fmt.Fprintf(os.Stderr, utils.DecorateText(err.Error(), utils.ErrorMessage))
		}

	case mode.IsRegular() || mode&os.ModeNamedPipe != 0:
		ext := filepath.Ext(op.Dst)
		if !isValidExtension(ext, validExtensions) && op.Dst != op.PipeName {
			log.Fatalf(utils.DecorateText(fmt.Sprintf("%v file type not supported", ext), utils.ErrorMessage))
		}

		err := d.processFile(op)
		printStatus(op.Dst, err)
	}

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

// processFile runs the detector over a single source file or pipe and
// optionally exports the detected features as JSON.
func (d *Detector) processFile(op *Ops) error {
	src, dst, err := pathToFile(op)
	if err != nil {
		return err
	}
	if f, ok := src.(*os.File); ok {
		defer f.Close()
	}
	if f, ok := dst.(*os.File); ok {
		defer f.Close()
	}

	// Capture CTRL-C signal and restore the cursor visibility back.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		d.Spinner.RestoreCursor()
		os.Exit(1)
	}()

	// Start the progress indicator.
	d.Spinner.Start()
	defer d.Spinner.Stop()

	d.Spinner.StopMsg = fmt.Sprintf("%s %s",
		utils.DecorateText("▲ SIFT", utils.StatusMessage),
		utils.DecorateText("⇢ keypoint detection finished ✔", utils.DefaultMessage),
	)

	annotated, features, err := d.process(src)
	if err != nil {
		return err
	}
	if err := encodeImg(dst, annotated); err != nil {
		return err
	}

	if op.FeaturesPath != "" {
		f, err := os.Create(op.FeaturesPath)
		if err != nil {
			return errors.Wrap(err, "unable to create the features file")
		}
		defer f.Close()

		if err := WriteFeatures(f, features); err != nil {
			return errors.Wrap(err, "unable to export the features")
		}
	}
	return nil
}

// walkDir starts a goroutine to walk the specified directory tree in recursive manner
// and send the path of each regular file on the string channel.
// It sends the result of the walk on the error channel.
// It terminates in case done channel is closed.
func walkDir(
	done <-chan interface{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() {
				return nil
			}
			if !isValidExtension(filepath.Ext(info.Name()), srcExts) {
				return nil
			}

			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// consumer reads the path names from the paths channel and runs the detector
// against the source image, then sends the results on a new channel.
func consumer(
	done <-chan interface{},
	paths <-chan string,
	dest string,
	d *Detector,
	res chan<- result,
) {
	for srcPath := range paths {
		dstPath := filepath.Join(dest, filepath.Base(srcPath))
		err := d.processFile(&Ops{Src: srcPath, Dst: dstPath})

		select {
		case <-done:
			return
		case res <- result{
			path: srcPath,
			err:  err,
		}:
		}
	}
}

// pathToFile converts the source and destination paths to readable and writable files.
func pathToFile(op *Ops) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	// Check if the source path is a local image or URL.
	if utils.IsValidUrl(op.Src) {
		src = imgFile
	} else {
		// Check if the source is a pipe name or a regular file.
		if op.Src == op.PipeName {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return nil, nil, errors.New("`-` should be used with a pipe for stdin")
			}
			src = os.Stdin
		} else {
			src, err = os.Open(op.Src)
			if err != nil {
				return nil, nil, errors.Wrap(err, "unable to open the source file")
			}
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if op.Dst == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		dst, err = os.OpenFile(op.Dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
		if err != nil {
			return nil, nil, errors.Wrap(err, "unable to create the destination file")
		}
	}
	return src, dst, nil
}

// isValidExtension checks for the supported file extensions.
func isValidExtension(ext string, exts []string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}

// printStatus displays the relevant information about the detection process.
func printStatus(fname string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr,
			utils.DecorateText("\nError detecting the keypoints: %s", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err.Error()), utils.DefaultMessage),
		)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "\nThe annotated image has been saved as: %s %s\n",
		utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
		utils.DefaultColor,
	)
}
