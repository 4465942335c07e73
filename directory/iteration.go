package directory

import "github.com/dreamsync/vmufs/blocks"

// FileCount returns the number of live DATA+GAME entries.
func (d *Directory) FileCount() (int, error) {
	count, err := d.Count()
	if err != nil {
		return 0, err
	}
	total := 0
	for i := 0; i < count; i++ {
		e, err := d.ByIndex(i)
		if err != nil {
			return 0, err
		}
		if e.IsLive() {
			total++
		}
	}
	return total, nil
}

// FileAtIndex iterates directory entries in descending dir index and returns
// the k-th live DATA/GAME entry encountered, along with its dir index. This
// ordering is observable and load-bearing: the defragmenter uses it to
// sequence reinstalls (spec.md section 4.2).
func (d *Directory) FileAtIndex(k int) (Entry, int, bool, error) {
	count, err := d.Count()
	if err != nil {
		return Entry{}, 0, false, err
	}

	seen := 0
	for i := count - 1; i >= 0; i-- {
		e, err := d.ByIndex(i)
		if err != nil {
			return Entry{}, 0, false, err
		}
		if !e.IsLive() {
			continue
		}
		if seen == k {
			return e, i, true, nil
		}
		seen++
	}
	return Entry{}, 0, false, nil
}

// Chains implements blocks.ChainWalker: it reports the first block, recorded
// file size, and GAME count for every live entry, in FileAtIndex order, for
// the invariant checker.
func (d *Directory) Chains() ([]blocks.BlockID, []int, int, error) {
	count, err := d.FileCount()
	if err != nil {
		return nil, nil, 0, err
	}

	firsts := make([]blocks.BlockID, 0, count)
	sizes := make([]int, 0, count)
	gameCount := 0
	for k := 0; k < count; k++ {
		e, _, ok, err := d.FileAtIndex(k)
		if err != nil {
			return nil, nil, 0, err
		}
		if !ok {
			break
		}
		firsts = append(firsts, blocks.BlockID(e.FirstBlock))
		sizes = append(sizes, int(e.FileSize))
		if e.Type == TypeGame {
			gameCount++
		}
	}
	return firsts, sizes, gameCount, nil
}
