/*
Package sift detects scale and rotation stable local features (keypoints) in a
grayscale image and computes for each of them a fixed length descriptor vector,
which can be used later on for image matching purposes.

The package provides a command line interface, supporting various flags for tuning
the detection process. To check the supported commands type:

	$ sift --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"os"

		sift "github.com/caomw/SIFT-implementation"
	)

	func main() {
		d := &sift.Detector{
			// Initialize struct variables
		}

		if err := d.Process(os.Stdin, os.Stdout); err != nil {
			fmt.Printf("Error detecting keypoints: %s", err.Error())
		}
	}
*/
package sift
