package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"text/template"
	"time"

	"golang.org/x/sync/errgroup"
)

// builderMethod matches vmTestCase builder methods that take arguments; each
// gets a combinator usable with vmTestCase.apply.
var builderMethod = regexp.MustCompile(`^func \(vmt vmTestCase\) (expect|with)(.+?)\((.+?)\) vmTestCase`)

type builder struct {
	Base   string // expect or with
	What   string
	Params string
	Args   string
}

var expectsTemplate = template.Must(template.New("expects").Parse(`package main

// @generated from {{ .Source }}
{{ if .Command }}
//go:generate {{ .Command }}
{{ end }}
{{ range .Builders }}
func {{ .Base }}VM{{ .What }}({{ .Params }}) func(vmTestCase) vmTestCase {
	return func(vmt vmTestCase) vmTestCase {
		return vmt.{{ .Base }}{{ .What }}({{ .Args }})
	}
}
{{ end }}`))

func main() {
	timeout := flag.Duration("timeout", 5*time.Second, "time limit for generation")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		log.Fatalln("usage: gen_vm_expects.go [-timeout d] -- SOURCE [OUTPUT]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := generate(ctx, args...); err != nil {
		log.Fatalln(err)
	}
}

// generate scans the named source file for builder methods, writing the
// rendered combinators through goimports into the named output, or stdout.
func generate(ctx context.Context, args ...string) error {
	src, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	var out io.WriteCloser = os.Stdout
	if len(args) > 1 {
		f, err := os.Create(args[1])
		if err != nil {
			return err
		}
		out = f
	}
	defer out.Close()

	builders, err := scanBuilders(src)
	if err != nil {
		return fmt.Errorf("scanning %v: %w", src.Name(), err)
	}

	var command string
	if len(args) > 1 {
		command = "go run scripts/gen_vm_expects.go -- " + strings.Join(args, " ")
	}

	eg, ctx := errgroup.WithContext(ctx)
	pr, pw := io.Pipe()

	eg.Go(func() error {
		imports := exec.CommandContext(ctx, "goimports")
		imports.Stdin = pr
		imports.Stdout = out
		imports.Stderr = os.Stderr
		if err := imports.Run(); err != nil {
			pr.CloseWithError(err)
			return fmt.Errorf("goimports run failed: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		err := expectsTemplate.Execute(pw, struct {
			Source   string
			Command  string
			Builders []builder
		}{src.Name(), command, builders})
		pw.CloseWithError(err)
		return err
	})

	return eg.Wait()
}

func scanBuilders(r io.Reader) (builders []builder, _ error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		match := builderMethod.FindSubmatch(sc.Bytes())
		if len(match) == 0 {
			continue
		}
		b := builder{
			Base:   string(match[1]),
			What:   string(match[2]),
			Params: string(match[3]),
		}
		var args []string
		for _, param := range bytes.Split(match[3], []byte(",")) {
			fields := bytes.Fields(param)
			arg := string(fields[0])
			if len(fields) > 1 && bytes.HasPrefix(fields[1], []byte("...")) {
				arg += "..."
			}
			args = append(args, arg)
		}
		b.Args = strings.Join(args, ", ")
		builders = append(builders, b)
	}
	return builders, sc.Err()
}
