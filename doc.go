/*
Package seamcarving is a content aware image resize library. It shrinks an image
horizontally and vertically by repeatedly removing the connected path of pixels
of least importance (a seam), which preserves the visually important parts of
the image better than scaling or cropping.

Seams are found with a dynamic programming table which is kept between two
removals: only the cells affected by the last removed seam are recomputed.
The source image is never modified, the carved result is a view over it.

The package also provides a command line interface. To check the supported flags type:

	$ seamcarving --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"image"
		"log"

		"github.com/esimov/seamcarving"
	)

	func main() {
		var img *image.NRGBA // the source image
		res := seamcarving.Resize[uint8](seamcarving.NewNRGBAGrid(img), 300, 200)
		out, err := seamcarving.BufferToImage(res)
		if err != nil {
			log.Fatal(err)
		}
		_ = out
	}
*/
package seamcarving
