package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPhysicalDisk(t *testing.T) {
	known := map[string]struct{}{
		"sda": {}, "sda1": {}, "sda2": {},
		"nvme0n1": {}, "nvme0n1p1": {},
		"mmcblk0": {}, "mmcblk0p1": {},
		"loop0": {}, "dm-0": {}, "md127": {}, "zram0": {}, "ram0": {}, "sr0": {},
		"vdb3": {},
		"disk0": {},
	}

	tests := []struct {
		name string
		want bool
	}{
		{"sda", true},
		{"sda1", false},
		{"nvme0n1", true},
		{"nvme0n1p1", false},
		{"mmcblk0", true},
		{"mmcblk0p1", false},
		{"loop0", false},
		{"dm-0", false},
		{"md127", false},
		{"zram0", false},
		{"ram0", false},
		{"sr0", false},
		{"vdb3", true}, // parent not present
		{"disk0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPhysicalDisk(tt.name, known))
		})
	}
}

func TestPartitionParent(t *testing.T) {
	tests := []struct {
		name   string
		parent string
		ok     bool
	}{
		{"sda1", "sda", true},
		{"sda", "", false},
		{"nvme0n1p2", "nvme0n1", true},
		{"nvme0n1", "nvme0n", true},
		{"mmcblk0p1", "mmcblk0", true},
		{"123", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent, ok := partitionParent(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.parent, parent)
		})
	}
}
