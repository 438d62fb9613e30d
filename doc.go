/*
Package colorize implements a scratch-off coloring toy: a grayscale rendering
of an image is revealed in color wherever the user drags the pointer over it.

The Controller picks an image from an AssetSet, decodes it in the background,
fits it into the bounding box and renders its grayscale version on the display
surface. Dragging the pointer copies a square region of the color image onto
the surface. The Gio based Gui is a thin layer on top of the controller.

The package ships with a desktop application. To check the supported flags type:

	$ colorize --help

The controller can also be driven without the window:

	package main

	import (
		"fmt"

		"github.com/esimov/colorize"
	)

	func main() {
		ctrl, err := colorize.NewController(colorize.NewAssetSet("assets"), nil, colorize.Options{})
		if err != nil {
			fmt.Printf("Error creating the controller: %s", err.Error())
			return
		}
		defer ctrl.Close()

		ctrl.Load()
		ctrl.Complete(<-ctrl.Results())

		ctrl.PointerDown(10, 10)
		ctrl.PointerMove(50, 50)
		ctrl.PointerUp()
	}
*/
package colorize
