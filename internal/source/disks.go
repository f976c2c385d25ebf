package source

import (
	"strings"
	"unicode"
)

// virtualDiskPrefixes are block devices that mirror or overlay physical
// disks. Counting them would double the aggregate.
var virtualDiskPrefixes = []string{"loop", "ram", "zram", "dm-", "md", "sr", "fd", "nbd"}

// IsPhysicalDisk reports whether name is a whole physical disk within the
// set of devices known. Partitions (sda1, nvme0n1p2, mmcblk0p1) are
// excluded when their parent disk is also present.
func IsPhysicalDisk[V any](name string, known map[string]V) bool {
	for _, prefix := range virtualDiskPrefixes {
		if strings.HasPrefix(name, prefix) {
			return false
		}
	}
	parent, ok := partitionParent(name)
	if !ok {
		return true
	}
	_, parentKnown := known[parent]
	return !parentKnown
}

// partitionParent strips a trailing partition number: sda1 -> sda,
// nvme0n1p2 -> nvme0n1, mmcblk0p1 -> mmcblk0.
func partitionParent(name string) (string, bool) {
	trimmed := strings.TrimRightFunc(name, unicode.IsDigit)
	if trimmed == name || trimmed == "" {
		return "", false
	}
	if strings.HasSuffix(trimmed, "p") && len(trimmed) > 1 {
		prev := rune(trimmed[len(trimmed)-2])
		if unicode.IsDigit(prev) {
			return trimmed[:len(trimmed)-1], true
		}
	}
	return trimmed, true
}
