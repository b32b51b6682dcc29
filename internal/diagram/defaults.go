package diagram

// DefaultColors returns a fresh copy of the seven-color connector palette
// used for new and imported diagrams.
func DefaultColors() []Color {
	return []Color{
		{ID: "blue", Value: "#0066cc"},
		{ID: "green", Value: "#00aa00"},
		{ID: "red", Value: "#cc0000"},
		{ID: "orange", Value: "#ff9900"},
		{ID: "purple", Value: "#9900cc"},
		{ID: "black", Value: "#000000"},
		{ID: "gray", Value: "#666666"},
	}
}
