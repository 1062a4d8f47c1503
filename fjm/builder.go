package fjm

// Builder assembles an image segment by segment.
type Builder struct {
	image Image
}

// NewBuilder creates a builder for an image of the given width and version.
func NewBuilder(width uint16, version uint64) (b *Builder) {
	b = &Builder{}
	b.image.Magic = MAGIC
	b.image.Width = width
	b.image.Version = version
	return
}

// SetFlags sets the version 1+ header flags.
func (b *Builder) SetFlags(flags uint64) {
	b.image.Flags = flags
}

// AddSegment places data at word index start, zero-filling the segment up
// to length words. Data values are the words as they should read once
// loaded; version 2 encoding is applied here.
func (b *Builder) AddSegment(start uint64, length uint64, data []uint64) (err error) {
	seg := Segment{
		SegmentStart: start,
		SegmentLen:   length,
		DataStart:    uint64(len(b.image.Data)),
		DataLen:      uint64(len(data)),
	}
	if seg.SegmentLen < seg.DataLen {
		err = &ErrSegment{Index: len(b.image.Segments), Segment: seg, Err: ErrMalformedSegment}
		return
	}

	mask := b.image.mask()
	for i, value := range data {
		index := start + uint64(i)
		if b.image.Version == 2 && index%2 == 1 {
			value -= index * uint64(b.image.Width)
		}
		b.image.Data = append(b.image.Data, value&mask)
	}
	b.image.Segments = append(b.image.Segments, seg)

	return
}

// Image returns the image built so far.
func (b *Builder) Image() *Image {
	img := b.image
	img.SegmentCount = uint64(len(img.Segments))
	return &img
}
