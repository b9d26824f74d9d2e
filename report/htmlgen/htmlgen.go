// Package htmlgen renders the static report pages. Three kinds of page,
// cross-linked by filename convention: index.html lists the projects,
// <project>.html lists a project's merges, <project>.<merge>.html shows the
// diff statistics of one merge and its immediate fix.
package htmlgen

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/ward/three-way-merge-finder/report/overlap"
	"github.com/ward/three-way-merge-finder/report/records"
)

const indexPage = `<!DOCTYPE html>
<html>
<body>
<table>
<tr><th>Project</th><th>Merge count</th><th>Immediate fix count</th></tr>
{{range .}}<tr><td><a href="{{.Link}}">{{.Name}}</a></td><td>{{.MergeCount}}</td><td>{{.FixCount}}</td></tr>
{{end}}</table>
</body>
</html>
`

const projectPage = `<!DOCTYPE html>
<html>
<body>
<h1>{{.Name}}</h1>
<table>
<tr><th>O</th><th>A</th><th>B</th><th>M</th><th>Fix</th></tr>
{{range .Merges}}<tr><td>{{.O}}</td><td>{{.A}}</td><td>{{.B}}</td><td><a href="{{.Link}}">{{.M}}</a></td><td>{{.Fix}}</td></tr>
{{end}}</table>
</body>
</html>
`

const mergePage = `<!DOCTYPE html>
<html>
<body>
<h2>Meta</h2>
<p><a href="{{.ProjectLink}}">{{.Project}}</a></p>
<table>
<tr><th>O</th><th>A</th><th>B</th><th>M</th><th>Fix</th></tr>
<tr><td>{{.Merge.O}}</td><td>{{.Merge.A}}</td><td>{{.Merge.B}}</td><td>{{.Merge.M}}</td><td>{{.Merge.Fix}}</td></tr>
</table>
<h2>Overlapping files</h2>
{{if .Overlap}}<ul>
{{range .Overlap}}<li>{{.}}</li>
{{end}}</ul>
{{else}}<p>No file was changed in all of O→A, O→B and M→Fix.</p>
{{end}}{{range .Sections}}<h1>{{.Title}}</h1>
<p><code>git diff --numstat {{.From}} {{.To}}</code></p>
{{if .Changes}}<table>
<tr><th>Added</th><th>Removed</th><th>File</th></tr>
{{range .Changes}}<tr>{{if .Binary}}<td>-</td><td>-</td>{{else}}<td>{{.Added}}</td><td>{{.Removed}}</td>{{end}}<td>{{.Path}}</td></tr>
{{end}}</table>
{{else}}<p>No changes.</p>
{{end}}{{end}}<h1>Fix commit message</h1>
<pre>{{.FixMessage}}</pre>
</body>
</html>
`

var (
	indexTemplate   = template.Must(template.New("index").Parse(indexPage))
	projectTemplate = template.Must(template.New("project").Parse(projectPage))
	mergeTemplate   = template.Must(template.New("merge").Parse(mergePage))
)

// ProjectFile is the report filename for a project page.
func ProjectFile(project string) string {
	return project + ".html"
}

// MergeFile is the report filename for a merge page.
func MergeFile(project, merge string) string {
	return fmt.Sprintf("%v.%v.html", project, merge)
}

type indexRow struct {
	records.Project
	Link string
}

type projectData struct {
	Name   string
	Merges []projectRow
}

type projectRow struct {
	records.JoinedMerge
	Link string
}

// Section is the diff statistics of one of the three commit pairs shown on
// a merge page.
type Section struct {
	Title   string
	From    string
	To      string
	Changes []overlap.FileChange
}

// MergePage carries everything shown for one merge.
type MergePage struct {
	Project    string
	Merge      records.JoinedMerge
	Sections   []Section
	FixMessage string
	Overlap    []string
}

// Renderer writes pages into OutDir.
type Renderer struct {
	OutDir string
}

func (r *Renderer) WriteIndex(projects []records.Project) error {
	rows := make([]indexRow, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, indexRow{Project: p, Link: ProjectFile(p.Name)})
	}
	return r.render("index.html", indexTemplate, rows)
}

func (r *Renderer) WriteProject(project string, merges []records.JoinedMerge) error {
	data := projectData{Name: project}
	for _, m := range merges {
		data.Merges = append(data.Merges, projectRow{JoinedMerge: m, Link: MergeFile(project, m.M)})
	}
	return r.render(ProjectFile(project), projectTemplate, data)
}

func (r *Renderer) WriteMerge(page MergePage) error {
	data := struct {
		MergePage
		ProjectLink string
	}{MergePage: page, ProjectLink: ProjectFile(page.Project)}
	return r.render(MergeFile(page.Project, page.Merge.M), mergeTemplate, data)
}

func (r *Renderer) render(filename string, tmpl *template.Template, data interface{}) error {
	f, err := os.Create(filepath.Join(r.OutDir, filename))
	if err != nil {
		return err
	}
	if err := tmpl.Execute(f, data); err != nil {
		f.Close()
		return fmt.Errorf("rendering %v: %v", filename, err)
	}
	return f.Close()
}
