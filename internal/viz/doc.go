// Package viz renders stored calculation results in the terminal.
//
// Listings use the lipgloss styles in this package; [Plot] draws a
// result column against temperature, pressure or density with
// asciigraph.
package viz
