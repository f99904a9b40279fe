// Package stylesheet turns the style declarations of one file into CSS text,
// generated identifiers, source edits and dev-mode warnings.
package stylesheet

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lucasols/vindur-sub001/internal/ast"
	"github.com/lucasols/vindur-sub001/internal/cssscan"
	"github.com/lucasols/vindur-sub001/internal/diag"
	"github.com/lucasols/vindur-sub001/internal/resolver"
	"github.com/lucasols/vindur-sub001/internal/sourcemap"
	"github.com/lucasols/vindur-sub001/internal/styleflags"
)

// RuntimeHelper is the library export styled components are rewritten to.
const RuntimeHelper = "_vSC"

// Options configures Build.
type Options struct {
	Dev        bool
	Production bool
	// RootDir makes file hashes independent of the checkout location.
	RootDir   string
	SourceMap bool
	// CSSFile is recorded as the generated file name in the source map.
	CSSFile   string
	Logger    *zap.Logger
	OnWarning func(diag.Warning)
}

// Declaration describes one generated identifier.
type Declaration struct {
	Name  string
	Kind  DeclKind
	ID    string
	Index int
	Line  int
}

// Output is the result of building one file.
type Output struct {
	CSS          string
	Edits        []Edit
	Map          *sourcemap.Builder
	Warnings     []diag.Warning
	Declarations []Declaration
	FileHash     string
}

// named reports whether generated identifiers carry readable names.
func (o Options) named() bool { return o.Dev && !o.Production }

type builder struct {
	r     *resolver.Resolver
	opts  Options
	log   *zap.Logger
	units map[string]*unit
	trail *resolver.Trail

	// custom properties of static theme colors used in dev builds
	themeVars  map[string]string
	themeOrder []string
	warnings   []diag.Warning
}

// Build compiles the style declarations of entry. The resolver must have
// entry registered with AddEntry. Errors are *diag.Error values; no partial
// output is returned with an error.
func Build(r *resolver.Resolver, entry *resolver.Module, opts Options) (*Output, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	b := &builder{
		r:         r,
		opts:      opts,
		log:       log.Named("stylesheet"),
		units:     make(map[string]*unit),
		trail:     resolver.NewTrail(),
		themeVars: make(map[string]string),
	}
	u := b.unitFor(entry)

	for _, d := range u.decls {
		switch d.kind {
		case StableID:
			if !d.root {
				return nil, diag.New(diag.StructuralMisuse, u.mod.Path, d.node,
					"stableId() must be the initializer of a module-root const with a plain identifier")
			}
		case DynamicColor:
		default:
			if _, err := b.resolveBody(u, d, d.node); err != nil {
				return nil, err
			}
		}
	}

	out := &Output{FileHash: u.hash}
	out.CSS = b.emit(u, out)

	edits, err := b.edits(u)
	if err != nil {
		return nil, err
	}
	out.Edits = edits

	if b.opts.Dev && !b.opts.Production {
		b.checkModifiers(u)
		b.checkCx(u)
	}
	out.Warnings = b.warnings

	for _, d := range u.decls {
		out.Declarations = append(out.Declarations, Declaration{
			Name:  d.name,
			Kind:  d.kind,
			ID:    d.id,
			Index: d.index,
			Line:  d.node.Loc().Start.Line,
		})
	}
	b.log.Debug("built stylesheet",
		zap.String("path", u.mod.Path),
		zap.Int("declarations", len(u.decls)),
		zap.Int("bytes", len(out.CSS)),
		zap.Int("warnings", len(out.Warnings)))
	return out, nil
}

// resolveBody interpolates the template of d once. The trail rejects style
// extension cycles.
func (b *builder) resolveBody(u *unit, d *declaration, at ast.Node) (string, error) {
	if d.state == resolved {
		return d.body, nil
	}
	if d.template == nil {
		return "", diag.New(diag.InvalidInterpolation, u.mod.Path, at, "%s has no CSS body", d.label)
	}
	key := u.trailKey(d)
	if err := b.trail.Enter(key, u.mod.Path, at); err != nil {
		return "", err
	}
	defer b.trail.Leave(key)

	flags, err := b.flagsOf(u, d)
	if err != nil {
		return "", err
	}
	raw, err := b.interpolate(u, d)
	if err != nil {
		return "", err
	}
	d.raw = dedent(raw)
	d.body = d.raw
	if flags != nil {
		d.body = cssscan.RewriteAmpClasses(d.raw, flags.Replacements())
	}
	d.state = resolved
	return d.body, nil
}

// flagsOf extracts the style flags of a styled component typed as
// styled.tag<{...}>.
func (b *builder) flagsOf(u *unit, d *declaration) (*styleflags.Spec, error) {
	if d.flagsDone {
		return d.flags, nil
	}
	tt, ok := d.node.(*ast.TaggedTemplate)
	if !ok || d.kind != StyledComponent || len(tt.TypeArgs) == 0 {
		d.flagsDone = true
		return nil, nil
	}
	spec, err := styleflags.Extract(tt.TypeArgs[0], u.mod.Path, u.mod.File.Source)
	if err != nil {
		return nil, err
	}
	spec.Assign(u.hash, b.opts.named())
	d.flags, d.flagsDone = spec, true
	return spec, nil
}

func (b *builder) interpolate(u *unit, d *declaration) (string, error) {
	tpl := d.template
	var sb strings.Builder
	skipSemi := false
	for i, q := range tpl.Quasis {
		if skipSemi {
			q = strings.TrimPrefix(strings.TrimLeft(q, " \t"), ";")
			skipSemi = false
		}
		sb.WriteString(q)
		if i >= len(tpl.Exprs) {
			break
		}

		at := site{u: u, d: d, expr: tpl.Exprs[i]}
		in, err := b.classify(at)
		if err != nil {
			return "", err
		}
		if _, ok := in.(styleRefInterp); ok {
			at.statement = statementPosition(sb.String(), tpl.Quasis[i+1])
		}
		text, err := b.render(in, at)
		if err != nil {
			return "", err
		}
		if at.statement {
			text = reindent(text, currentIndent(sb.String()))
			skipSemi = true
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// statementPosition reports whether an interpolation between before and
// after stands where a declaration would.
func statementPosition(before, after string) bool {
	prev := strings.TrimRight(before, " \t\r\n")
	if prev != "" {
		switch prev[len(prev)-1] {
		case '{', ';', '}':
		default:
			return false
		}
	}
	next := strings.TrimLeft(after, " \t")
	return next == "" || strings.ContainsRune(";\r\n}", rune(next[0]))
}

func currentIndent(s string) string {
	line := s[strings.LastIndexByte(s, '\n')+1:]
	if strings.TrimSpace(line) != "" {
		return ""
	}
	return line
}

func reindent(s, prefix string) string {
	if prefix == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// emit assembles the stylesheet of u and records source mappings.
func (b *builder) emit(u *unit, out *Output) string {
	type chunk struct {
		text string
		decl *declaration
	}
	var chunks []chunk
	if len(b.themeOrder) > 0 {
		var sb strings.Builder
		sb.WriteString(":root {\n")
		for _, prop := range b.themeOrder {
			fmt.Fprintf(&sb, "  %s: %s;\n", prop, b.themeVars[prop])
		}
		sb.WriteString("}")
		chunks = append(chunks, chunk{text: sb.String()})
	}
	for _, d := range u.decls {
		if d.template == nil || strings.TrimSpace(d.body) == "" {
			continue
		}
		var text string
		switch d.kind {
		case PlainStyle, StyledComponent:
			text = "." + d.id + " {\n" + indent(d.body) + "\n}"
		case Keyframes:
			text = "@keyframes " + d.id + " {\n" + indent(d.body) + "\n}"
		case GlobalStyle:
			text = d.body
		}
		chunks = append(chunks, chunk{text: text, decl: d})
	}
	if len(chunks) == 0 {
		return ""
	}

	if b.opts.SourceMap {
		out.Map = sourcemap.New(b.opts.CSSFile, u.mod.Path)
		out.Map.SetSourceContent(string(u.mod.File.Source))
	}
	texts := make([]string, len(chunks))
	line := 0
	for i, c := range chunks {
		texts[i] = c.text
		if out.Map != nil && c.decl != nil {
			src := c.decl.template.Span.Start
			for _, off := range cssscan.TopLevelRules(c.text) {
				out.Map.Add(sourcemap.Mapping{
					GenLine: line + cssscan.LineOf(c.text, off),
					GenCol:  off - (strings.LastIndexByte(c.text[:off], '\n') + 1),
					SrcLine: src.Line - 1,
					SrcCol:  src.Column - 1,
				})
			}
		}
		line += strings.Count(c.text, "\n") + 2
	}
	return strings.Join(texts, "\n\n") + "\n"
}
