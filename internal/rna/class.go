package rna

// Class groups strands by the trait that dominates how they are drawn.
type Class string

const (
	ClassCatalytic Class = "catalytic"
	ClassGCRich    Class = "gc_rich"
	ClassAURich    Class = "au_rich"
	ClassBalanced  Class = "balanced"
)

var classColors = map[Class]string{
	ClassCatalytic: "#ff00e6",
	ClassGCRich:    "#00e6ff",
	ClassAURich:    "#39ff14",
	ClassBalanced:  "#f7ff00",
}

// Color returns the neon palette color used to render the class.
func (c Class) Color() string {
	if col, ok := classColors[c]; ok {
		return col
	}
	return classColors[ClassBalanced]
}

// Classes lists every class in display order.
func Classes() []Class {
	return []Class{ClassCatalytic, ClassGCRich, ClassAURich, ClassBalanced}
}
