/*
Package texatlas reads and writes texture atlases: large images that pack
many small named textures, together with an index of where every texture
lives, both in pixels and in normalized texture coordinates.

An atlas file is a zip archive. A multi-page atlas stores one
<page>.json and <page>.png entry pair per page; a single-page atlas may
instead use coordinate_charts.json and atlas.png. The JSON record holds the
page origin, optionally its pixel layout, and a map from texture index to
texture name and pixel bounding box:

	{
	  "origin": "BottomLeft",
	  "color_type": "Rgba8",
	  "coordinate_charts": {
	    "0": {"name": "red", "bounding_box": {"top_left": {"u": 0, "v": 15}, "width": 8, "height": 8}}
	  }
	}

Pages with a BottomLeft origin keep their pixel rows bottom to top in
memory; the rows are flipped on the way in and out of the PNG codec.
*/
package texatlas
