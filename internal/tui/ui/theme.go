package ui

import "github.com/gdamore/tcell/v2"

// Theme holds color constants for the TUI.
type Theme struct {
	BgColor          tcell.Color
	FgColor          tcell.Color
	BorderColor      tcell.Color
	BorderFocusColor tcell.Color
	TableHeaderFg    tcell.Color
	TableCursorFg    tcell.Color
	TableCursorBg    tcell.Color
	TitleColor       tcell.Color
	OnlineColor      tcell.Color
	OfflineColor     tcell.Color
	UnreadColor      tcell.Color
	TypingColor      tcell.Color
	AssistantColor   tcell.Color
	FlashColor       tcell.Color
}

// DefaultTheme returns the dark green chat theme.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:          tcell.ColorBlack,
		FgColor:          tcell.ColorLightGray,
		BorderColor:      tcell.ColorDarkSeaGreen,
		BorderFocusColor: tcell.ColorSpringGreen,
		TableHeaderFg:    tcell.ColorWhite,
		TableCursorFg:    tcell.ColorBlack,
		TableCursorBg:    tcell.ColorMediumSpringGreen,
		TitleColor:       tcell.ColorSpringGreen,
		OnlineColor:      tcell.ColorGreen,
		OfflineColor:     tcell.ColorGray,
		UnreadColor:      tcell.ColorOrange,
		TypingColor:      tcell.ColorAqua,
		AssistantColor:   tcell.ColorFuchsia,
		FlashColor:       tcell.ColorYellow,
	}
}
