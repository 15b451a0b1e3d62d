package model

// ClassCount is the cardinality of the label table.
const ClassCount = 3

// Species is a class index produced by the classifier.
type Species int

// Class indices as emitted by the artifact.
const (
	Setosa Species = iota
	Versicolor
	Virginica
)

var labelTable = [ClassCount]string{
	Setosa:     "Setosa",
	Versicolor: "Versicolor",
	Virginica:  "Virginica",
}

// LookupLabel maps a class index to its display name.
func LookupLabel(index int) (string, bool) {
	if index < 0 || index >= ClassCount {
		return "", false
	}
	return labelTable[index], true
}

// Labels returns the display names ordered by class index.
func Labels() []string {
	out := make([]string, ClassCount)
	copy(out, labelTable[:])
	return out
}

// String returns the display name, or "Unknown" for an index outside the table.
func (s Species) String() string {
	if label, ok := LookupLabel(int(s)); ok {
		return label
	}
	return "Unknown"
}
