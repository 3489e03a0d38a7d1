package texture

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	tgaTypeTrueColor    = 2
	tgaTypeGray         = 3
	tgaTypeTrueColorRLE = 10
	tgaTypeGrayRLE      = 11
)

var errTGATruncated = errors.New("tga: pixel data truncated")

type tgaHeader struct {
	IDLength     uint8
	ColorMapType uint8
	ImageType    uint8
	ColorMapSpec [5]byte
	OriginX      uint16
	OriginY      uint16
	Width        uint16
	Height       uint16
	BitsPerPixel uint8
	Descriptor   uint8
}

// DecodeTGA decodes uncompressed or RLE true-color and grayscale TGA data.
// Color-mapped images are rejected.
func DecodeTGA(data []byte) (image.Image, error) {
	var h tgaHeader
	if len(data) < 18 {
		return nil, fmt.Errorf("tga: header truncated (%d bytes)", len(data))
	}
	if err := binary.Read(bytes.NewReader(data[:18]), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("tga: reading header: %w", err)
	}

	if h.ColorMapType != 0 {
		return nil, fmt.Errorf("tga: color-mapped images not supported")
	}
	gray := h.ImageType == tgaTypeGray || h.ImageType == tgaTypeGrayRLE
	rle := h.ImageType == tgaTypeTrueColorRLE || h.ImageType == tgaTypeGrayRLE
	switch h.ImageType {
	case tgaTypeTrueColor, tgaTypeTrueColorRLE:
		if h.BitsPerPixel != 24 && h.BitsPerPixel != 32 {
			return nil, fmt.Errorf("tga: unsupported bit depth %d", h.BitsPerPixel)
		}
	case tgaTypeGray, tgaTypeGrayRLE:
		if h.BitsPerPixel != 8 {
			return nil, fmt.Errorf("tga: unsupported grayscale depth %d", h.BitsPerPixel)
		}
	default:
		return nil, fmt.Errorf("tga: unsupported image type %d", h.ImageType)
	}

	offset := 18 + int(h.IDLength)
	if offset > len(data) {
		return nil, errTGATruncated
	}

	width, height := int(h.Width), int(h.Height)
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	px := &tgaPixels{
		img:         img,
		bpp:         int(h.BitsPerPixel) / 8,
		gray:        gray,
		topToBottom: h.Descriptor&0x20 != 0,
	}

	var err error
	if rle {
		err = px.readRLE(data[offset:])
	} else {
		err = px.readRaw(data[offset:])
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// tgaPixels writes decoded pixels in file order into the destination image.
type tgaPixels struct {
	img         *image.NRGBA
	bpp         int
	gray        bool
	topToBottom bool
	next        int
}

func (p *tgaPixels) total() int {
	b := p.img.Bounds()
	return b.Dx() * b.Dy()
}

func (p *tgaPixels) color(src []byte) color.NRGBA {
	if p.gray {
		return color.NRGBA{R: src[0], G: src[0], B: src[0], A: 255}
	}
	c := color.NRGBA{R: src[2], G: src[1], B: src[0], A: 255}
	if p.bpp == 4 {
		c.A = src[3]
	}
	return c
}

func (p *tgaPixels) put(c color.NRGBA) {
	w := p.img.Bounds().Dx()
	x, y := p.next%w, p.next/w
	if !p.topToBottom {
		y = p.img.Bounds().Dy() - 1 - y
	}
	p.img.SetNRGBA(x, y, c)
	p.next++
}

func (p *tgaPixels) readRaw(data []byte) error {
	n := p.total()
	if len(data) < n*p.bpp {
		return errTGATruncated
	}
	for i := 0; i < n; i++ {
		p.put(p.color(data[i*p.bpp:]))
	}
	return nil
}

func (p *tgaPixels) readRLE(data []byte) error {
	n := p.total()
	i := 0
	for p.next < n {
		if i >= len(data) {
			return errTGATruncated
		}
		packet := data[i]
		i++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if i+p.bpp > len(data) {
				return errTGATruncated
			}
			c := p.color(data[i:])
			i += p.bpp
			for ; count > 0 && p.next < n; count-- {
				p.put(c)
			}
			continue
		}

		for ; count > 0 && p.next < n; count-- {
			if i+p.bpp > len(data) {
				return errTGATruncated
			}
			p.put(p.color(data[i:]))
			i += p.bpp
		}
	}
	return nil
}
