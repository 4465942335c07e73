package vmufile

import "github.com/dreamsync/vmufs/blocks"

// bytesToBlocks is the ceil-division helper from the original firmware's
// gyVmuFlashBytesToBlocks, with the negative-size clamp spec.md section 9's
// open questions call for: a negative byte count yields 0 blocks rather than
// a negative result.
func bytesToBlocks(n int) int {
	if n <= 0 {
		return 0
	}
	blocksNeeded := n / blocks.BlockSize
	if n%blocks.BlockSize != 0 {
		blocksNeeded++
	}
	return blocksNeeded
}
