package model

// Icons used by the tree browser and the text report.
// Single-width characters keep columns aligned in terminals.
const (
	IconDir      = "▸"
	IconFile     = " "
	IconSmall    = "•" // counted by part 1
	IconDelete   = "✗" // chosen by part 2
	IconConflict = "≈" // listed twice with different sizes
)
