package brushfs

import "sync/atomic"

// rootInode is reserved for the root directory.
const rootInode uint64 = 1

// inodeAllocator hands out inode numbers for one mounted archive.
type inodeAllocator struct {
	highest atomic.Uint64
}

func newInodeAllocator() *inodeAllocator {
	a := &inodeAllocator{}
	a.highest.Store(rootInode)
	return a
}

func (a *inodeAllocator) next() uint64 {
	return a.highest.Add(1)
}
