package models

// DisplayMessage is the two-line text shown on the box's 16x2 LCD.
type DisplayMessage struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}
