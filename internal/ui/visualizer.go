package ui

import "strings"

// PrintTemplateLine prints a line containing {{color}} markers, coloring each
// segment up to the next marker, and ends it with a newline.
func (u *UI) PrintTemplateLine(line string) {
	for len(line) > 0 {
		startIndex := strings.Index(line, "{{")
		if startIndex == -1 {
			u.Print(line)
			break
		}

		endIndex := strings.Index(line[startIndex:], "}}")
		if endIndex == -1 {
			u.Print(line)
			break
		}
		endIndex += startIndex

		// Print the part before the color code
		if startIndex > 0 {
			u.Print(line[:startIndex])
		}

		color, exists := colorMap[line[startIndex:endIndex+2]]
		if !exists {
			color = ColorDefault
		}

		// Find the next color code or the end of the string
		rest := line[endIndex+2:]
		nextStartIndex := strings.Index(rest, "{{")
		if nextStartIndex == -1 {
			u.PrintColored(rest, color)
			break
		}
		u.PrintColored(rest[:nextStartIndex], color)
		line = rest[nextStartIndex:]
	}
	u.Println("")
}

// StripMarkers removes {{color}} markers, leaving the plain text.
func StripMarkers(line string) string {
	for marker := range colorMap {
		line = strings.ReplaceAll(line, marker, "")
	}
	return line
}
