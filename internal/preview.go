package internal

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderPreview draws img in cols x rows terminal cells. Each cell is an
// upper half block: the foreground is the top pixel, the background the
// bottom one.
func renderPreview(img image.Image, cols, rows int) string {
	b := img.Bounds()
	if b.Empty() || cols <= 0 || rows <= 0 {
		return ""
	}

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x := b.Min.X + col*b.Dx()/cols
			top := b.Min.Y + (2*row)*b.Dy()/(2*rows)
			bottom := b.Min.Y + (2*row+1)*b.Dy()/(2*rows)
			cell := lipgloss.NewStyle().
				Foreground(hexColor(img, x, top)).
				Background(hexColor(img, x, bottom))
			sb.WriteString(cell.Render("▀"))
		}
		if row < rows-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func hexColor(img image.Image, x, y int) lipgloss.Color {
	r, g, b, _ := img.At(x, y).RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
