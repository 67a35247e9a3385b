//go:build !(board_nucleo_g474re || board_weact_g474)

package board

// Selected is the board this binary was built for.
var Selected = NucleoG431RB
