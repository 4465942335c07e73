package blocks

import "time"

func toBCD(n int) byte {
	return byte(((n / 10) << 4) | (n % 10))
}

func fromBCD(b byte) int {
	return int((b>>4)*10 + (b & 0x0f))
}

// EncodeBCDTimestamp converts t to the 8-byte BCD layout shared by the root
// block and directory entries: century, year, month, day, hour, minute,
// second, weekday. Century is stored as the first two digits of the
// four-digit year in BCD (0x20 for 2026), and year as the last two.
func EncodeBCDTimestamp(t time.Time) [8]byte {
	year := t.Year()
	return [8]byte{
		toBCD(year / 100),
		toBCD(year % 100),
		toBCD(int(t.Month())),
		toBCD(t.Day()),
		toBCD(t.Hour()),
		toBCD(t.Minute()),
		toBCD(t.Second()),
		toBCD(int(t.Weekday())),
	}
}

// DecodeBCDTimestamp is the inverse of EncodeBCDTimestamp. The returned time
// is in the local time zone, matching how it was stamped.
func DecodeBCDTimestamp(raw [8]byte) time.Time {
	century := fromBCD(raw[0])
	year := century*100 + fromBCD(raw[1])
	month := fromBCD(raw[2])
	day := fromBCD(raw[3])
	hour := fromBCD(raw[4])
	minute := fromBCD(raw[5])
	second := fromBCD(raw[6])

	if month < 1 {
		month = 1
	}
	if day < 1 {
		day = 1
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.Local)
}
