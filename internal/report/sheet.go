// Package report renders finished or running games as printable PDF sheets.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"connect4/internal/domain/board"
	"connect4/internal/domain/game"
)

const (
	pageWidth   = 180.0
	boardHeight = 110.0
	marginLeft  = 15.0
)

// GameSheet writes a one page PDF with the game header, the position b and
// the move list.
func GameSheet(w io.Writer, play game.Game, b *board.Board) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Connect Four "+play.ID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Connect Four")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range header(play) {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	drawBoard(pdf, b, pdf.GetY())
	pdf.Ln(6)

	pdf.SetFont("Courier", "", 10)
	pdf.MultiCell(0, 5, moveList(play.Moves), "", "L", false)

	return pdf.Output(w)
}

func header(play game.Game) []string {
	result := play.Winner
	if result == "" {
		result = "in progress, " + play.NextColor + " to move"
	}
	bot := play.BotColor
	if bot == "" {
		bot = "none"
	}
	return []string{
		"Game: " + play.ID,
		fmt.Sprintf("Board: %dx%d", play.Width, play.Height),
		fmt.Sprintf("Bot: %s (depth %d)", bot, play.Depth),
		"Result: " + result,
		fmt.Sprintf("Evaluation: %d", play.Score),
		"Started: " + play.CreatedAt.Format("2006-01-02 15:04 MST"),
	}
}

func drawBoard(pdf *gofpdf.Fpdf, b *board.Board, top float64) {
	cell := min(pageWidth/float64(b.Width()), boardHeight/float64(b.Height()))
	width := cell * float64(b.Width())
	height := cell * float64(b.Height())
	left := marginLeft + (pageWidth-width)/2

	pdf.SetFillColor(30, 70, 160)
	pdf.Rect(left, top, width, height, "F")

	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			switch b.At(x, y) {
			case board.Red:
				pdf.SetFillColor(210, 40, 40)
			case board.Blue:
				pdf.SetFillColor(240, 200, 40)
			default:
				pdf.SetFillColor(255, 255, 255)
			}
			cx := left + (float64(x)+0.5)*cell
			cy := top + height - (float64(y)+0.5)*cell
			pdf.Circle(cx, cy, cell*0.4, "F")
		}
	}

	pdf.SetFont("Helvetica", "", 9)
	for x := 0; x < b.Width(); x++ {
		pdf.SetXY(left+float64(x)*cell, top+height+1)
		pdf.CellFormat(cell, 5, fmt.Sprint(x), "", 0, "C", false, 0, "")
	}
	pdf.SetXY(marginLeft, top+height+6)
}

// moveList pairs moves into numbered rounds, Red first.
func moveList(moves []int) string {
	if len(moves) == 0 {
		return "No moves played."
	}
	var sb strings.Builder
	for i := 0; i < len(moves); i += 2 {
		fmt.Fprintf(&sb, "%3d. red %d", i/2+1, moves[i])
		if i+1 < len(moves) {
			fmt.Fprintf(&sb, "   blue %d", moves[i+1])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
