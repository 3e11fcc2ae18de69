package fat16

import (
	"github.com/boljen/go-bitmap"
)

// ClusterUsage walks the FAT once and returns a bitmap indexed by data
// cluster number (index 0 corresponds to cluster 2, the first data cluster):
// true means the cluster's own FAT entry is non-zero (part of a chain, or
// marked bad), false means it is free. This is a read-only diagnostic; it does not modify the volume, and
// it says nothing about whether a used cluster is reachable from the root
// directory (an orphaned chain looks identical to a live one here).
func (v *Volume) ClusterUsage() bitmap.Bitmap {
	usage := bitmap.New(int(v.totalDataClusters))
	for c := uint32(2); c < v.totalDataClusters+2; c++ {
		raw, err := v.fatEntry(c)
		if err != nil {
			continue
		}
		if raw != clusterFree {
			usage.Set(int(c-2), true)
		}
	}
	return usage
}

// FreeClusters counts clusters marked free in the bitmap ClusterUsage
// returns, a convenience for reporting available space. Each call walks the
// FAT again through ClusterUsage.
func (v *Volume) FreeClusters() uint32 {
	usage := v.ClusterUsage()
	var free uint32
	for i := 0; i < int(v.totalDataClusters); i++ {
		if !usage.Get(i) {
			free++
		}
	}
	return free
}
