// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package assembler

import (
	"sort"
)

// Region is a contiguous run of assembled bytes.
type Region struct {
	Start uint16
	Data  []byte
}

// End returns the address one past the region, which may be AddressLimit.
func (r Region) End() int {
	return int(r.Start) + len(r.Data)
}

// Image is a sparse 64K memory image. Every address is written at most once
// per distinct value: rewriting identical bytes is allowed, conflicting
// bytes are an OverlapError.
type Image struct {
	memory map[uint16]byte
	owners map[uint16]Position
}

func NewImage() *Image {
	return &Image{
		memory: make(map[uint16]byte),
		owners: make(map[uint16]Position),
	}
}

func (img *Image) Write(pos Position, addr uint16, data []byte) error {
	if int(addr)+len(data) > AddressLimit {
		return &AddressOverflowError{pos, int(addr), len(data)}
	}

	// Check the whole span first so a failed write leaves the image as it was
	for i, want := range data {
		at := addr + uint16(i)

		if have, exists := img.memory[at]; exists && have != want {
			return &OverlapError{pos, img.owners[at], at, have, want}
		}
	}

	for i, value := range data {
		at := addr + uint16(i)

		if _, exists := img.memory[at]; !exists {
			img.owners[at] = pos
		}

		img.memory[at] = value
	}

	return nil
}

func (img *Image) Read(addr uint16) (byte, bool) {
	value, exists := img.memory[addr]
	return value, exists
}

func (img *Image) Len() int {
	return len(img.memory)
}

// Regions returns the image as ordered, maximal contiguous regions.
func (img *Image) Regions() []Region {
	addrs := make([]int, 0, len(img.memory))

	for addr := range img.memory {
		addrs = append(addrs, int(addr))
	}

	sort.Ints(addrs)

	var regions []Region

	for i, addr := range addrs {
		if i == 0 || addr != addrs[i-1]+1 {
			regions = append(regions, Region{Start: uint16(addr)})
		}

		last := &regions[len(regions)-1]
		last.Data = append(last.Data, img.memory[uint16(addr)])
	}

	return regions
}

// Fill copies the image into a flat buffer covering [start, start+len(dst)),
// leaving unwritten addresses untouched.
func (img *Image) Fill(dst []byte, start uint16) {
	for addr, value := range img.memory {
		offset := int(addr) - int(start)

		if offset >= 0 && offset < len(dst) {
			dst[offset] = value
		}
	}
}
