// Package fjm reads and writes flip-jump memory images.
//
// An image is a little-endian header, a table of segments, and a flat pool of
// words of the image's width. Each segment places a run of pool words at a
// word index and may extend past its data with zero words:
//
//	magic:u16 width:u16 version:u64 segments:u64 [flags:u64 reserved:u32]
//	{start:u64 length:u64 data_start:u64 data_length:u64}*segments
//	word*
//
// The flags/reserved extension is only present for versions above 0. Version 2
// images store every odd-indexed word with (index * width) subtracted; the
// loader adds it back.
package fjm
