//go:build board_weact_g474 && !board_nucleo_g474re

package board

var Selected = WeActG474
