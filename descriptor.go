package sift

// Descriptor histogram layout: 8 bins of 45 degrees per 4x4 block.
const (
	descriptorBlockSize = 4
	descriptorBinWidth  = 45
)

// Descriptor is the fixed length feature vector of a keypoint: the
// concatenated direction histograms of the 4x4 sub-blocks of its gradient
// window. With the 16x16 window this yields 8*(16/4)^2 = 128 entries.
type Descriptor []float64

// ComputeDescriptors builds one descriptor per retained gradient window.
// Keypoints that were skipped by the orientation stage yield a nil
// descriptor at their position, keeping the result aligned with the input.
func ComputeDescriptors(oriented []OrientedKeypoint) []Descriptor {
	descriptors := make([]Descriptor, len(oriented))
	for z, kp := range oriented {
		if kp.Map == nil {
			continue
		}
		descriptors[z] = blockDescriptor(kp.Map)
	}
	return descriptors
}

// blockDescriptor partitions the direction map into non-overlapping 4x4
// blocks, the outer loop walking the column starts and the inner one the row
// starts, and concatenates the 45 degree direction histogram of every block.
func blockDescriptor(m *OrientationMap) Descriptor {
	blocks := m.Size / descriptorBlockSize
	descriptor := make(Descriptor, 0, blocks*blocks*angleRange/descriptorBinWidth)

	block := make([]float64, descriptorBlockSize*descriptorBlockSize)
	for bx := 0; bx+descriptorBlockSize <= m.Size; bx += descriptorBlockSize {
		for by := 0; by+descriptorBlockSize <= m.Size; by += descriptorBlockSize {
			n := 0
			for i := 0; i < descriptorBlockSize; i++ {
				for j := 0; j < descriptorBlockSize; j++ {
					block[n] = m.dir(bx+i, by+j)
					n++
				}
			}
			descriptor = append(descriptor, buildHistogram(block, descriptorBinWidth, angleRange)...)
		}
	}
	return descriptor
}
