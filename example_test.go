package lispmark_test

import (
	"fmt"

	"github.com/zephyrtronium/lispmark"
	"github.com/zephyrtronium/lispmark/markup"
)

func ExampleCompile() {
	doc, err := lispmark.Compile("let r = 2\nThe area is (show (* pi (pow r 2))).\n")
	if err != nil {
		panic(err)
	}
	markup.Walk(doc, func(n markup.Node) {
		f, ok := n.(*markup.Fragment)
		if !ok {
			return
		}
		switch {
		case f.Err != nil:
			fmt.Println(f.Kind, f.Code, "failed:", f.Err)
		case f.Markup == "":
			fmt.Println(f.Kind, f.Code, "ok")
		default:
			fmt.Println(f.Kind, f.Code, "=>", f.Markup)
		}
	})
	// Output:
	// eval (define r 2) ok
	// show (* pi (pow r 2)) => <math xmlns="http://www.w3.org/1998/Math/MathML"><mrow><mi>π</mi><mo>⋅</mo><msup><mi>r</mi><mn>2</mn></msup></mrow></math>
}
