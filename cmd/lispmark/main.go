package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/k0kubun/pp"

	"github.com/zephyrtronium/lispmark"
	"github.com/zephyrtronium/lispmark/markup"
	"github.com/zephyrtronium/lispmark/sexpr"
)

func main() {
	log.SetFlags(0)
	var (
		inname        string
		echo, verbose bool
		prec, chunk   int
		workers       int
	)
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.IntVar(&prec, "p", sexpr.DefaultPrec, "precision of calculations in bits")
	flag.IntVar(&chunk, "chunk", markup.DefaultChunkLines, "lines per chunk for parallel parsing, 0 to disable")
	flag.IntVar(&workers, "workers", 0, "maximum chunks to parse at once (default GOMAXPROCS)")
	flag.BoolVar(&echo, "echo", false, "print document trees")
	flag.BoolVar(&verbose, "v", false, "print a summary of each document")
	flag.Parse()
	if prec <= 0 {
		log.Fatalf("precision (%d) must be positive", prec)
	}
	if chunk < 0 {
		log.Fatalf("chunk size (%d) must not be negative", chunk)
	}

	type input struct {
		name, src string
	}
	var ins []input
	name, src, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal(err)
	}
	if name != "" {
		ins = append(ins, input{name, src})
	}
	for i, arg := range flag.Args() {
		ins = append(ins, input{fmt.Sprintf("arg%d", i+1), arg})
	}

	for _, in := range ins {
		doc, err := lispmark.ParseDocument(in.src, markup.FileName(in.name), markup.ChunkLines(chunk), markup.Workers(workers))
		if err != nil {
			var le *markup.LexError
			if errors.As(err, &le) {
				log.Fatal(le.Snippet())
			}
			log.Fatalf("%s: %v", in.name, err)
		}
		if echo {
			pp.Println(doc)
		}
		env := sexpr.NewEnv(sexpr.Prec(uint(prec)))
		f := lispmark.CollectFragments(doc, sexpr.ParsePrec(uint(prec)))
		res := lispmark.RunEvaluator(f, env)
		markup.Walk(doc, func(n markup.Node) {
			b, ok := n.(*markup.EvalBlock)
			if !ok {
				return
			}
			k, err := f.Lookup(b)
			if err == nil {
				err = res[k].Err
			}
			if err != nil {
				fmt.Printf("eval %s => error: %v\n", b.Code, err)
				return
			}
			fmt.Printf("eval %s => %v\n", b.Code, res[k].Value)
		})
		out := lispmark.FormatShowBlocks(lispmark.InjectResults(doc, f, res), env)
		markup.Walk(out, func(n markup.Node) {
			if frag, ok := n.(*markup.Fragment); ok && frag.Kind == markup.FragmentShow {
				fmt.Printf("show %s => %s\n", frag.Code, frag.Markup)
			}
		})
		if verbose {
			lines := int64(strings.Count(in.src, "\n") + 1)
			log.Printf("%s: %s in %s lines, %s eval fragments (%s distinct)",
				in.name,
				humanize.Bytes(uint64(len(in.src))),
				humanize.Comma(lines),
				humanize.Comma(int64(count(doc))),
				humanize.Comma(int64(f.Len())),
			)
		}
	}
}

// count returns the number of eval blocks in a document.
func count(doc []markup.Node) int {
	n := 0
	markup.Walk(doc, func(x markup.Node) {
		if _, ok := x.(*markup.EvalBlock); ok {
			n++
		}
	})
	return n
}

func infile(inname string, std bool) (name, src string, err error) {
	var r io.Reader
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			return "", "", err
		}
		defer f.Close()
		r, name = f, inname
	case inname == "-", std:
		r, name = os.Stdin, "stdin"
	default:
		return "", "", nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", "", err
	}
	return name, string(b), nil
}
