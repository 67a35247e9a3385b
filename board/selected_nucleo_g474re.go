//go:build board_nucleo_g474re

package board

var Selected = NucleoG474RE
