package blocks

import "encoding/binary"

// defaultEncoding is the byte order used for every on-flash integer field,
// following the restruct.Unpack/Pack convention from dsoprea-go-exfat's
// structures.go.
var defaultEncoding = binary.LittleEndian

// ByteOrder is the same byte order, exported for other packages (directory,
// codecs) that decode their own on-flash/on-disk structs with restruct.
var ByteOrder = binary.LittleEndian

