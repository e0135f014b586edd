package zipvfs

import "time"

// dosTimeToUnix converts a packed 32-bit value (high 16 bits DOS date, low 16
// bits DOS time) into seconds since the Unix epoch, per spec.md §4.5. The
// fields are interpreted as local civil time and the platform's DST rules are
// applied by time.Date, matching the teacher's msDosTimeToTime helper
// (duplicated byte-for-byte across nguyengg-xy3/z/cd.go, z/cdscanner.go, and
// zipper/headers.go) except that this returns seconds-since-epoch rather than
// a time.Time, and uses time.Local rather than time.UTC, as spec.md requires.
func dosTimeToUnix(packed uint32) int64 {
	date := uint16(packed >> 16)
	clock := uint16(packed & 0xffff)

	year := int((date>>9)&0x7f) + 1980
	month := time.Month((date >> 5) & 0x0f)
	day := int(date & 0x1f)

	hour := int((clock >> 11) & 0x1f)
	minute := int((clock >> 5) & 0x3f)
	second := int(clock&0x1f) << 1

	return time.Date(year, month, day, hour, minute, second, 0, time.Local).Unix()
}
