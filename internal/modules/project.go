package modules

import "github.com/solar-lang/solar-compiler/internal/symbols"

// Project is one loaded project: the target or one of its (transitive)
// dependencies.
type Project struct {
	ID   int
	Name string
	Dir  string
	// Base is the absolute path of the project's root module.
	Base symbols.IdPath
	// Deps maps a library name to the Base of the library project.
	Deps map[string]symbols.IdPath
}

// ProjectInfo lists every loaded project, flattened. The target project
// always has ID 0.
type ProjectInfo struct {
	Projects []*Project
}

func (p *ProjectInfo) Project(id int) *Project {
	if id < 0 || id >= len(p.Projects) {
		return nil
	}
	return p.Projects[id]
}

// Target is the project being compiled.
func (p *ProjectInfo) Target() *Project {
	return p.Project(0)
}

// Add registers a project and assigns its ID.
func (p *ProjectInfo) Add(proj *Project) *Project {
	proj.ID = len(p.Projects)
	if proj.Deps == nil {
		proj.Deps = make(map[string]symbols.IdPath)
	}
	p.Projects = append(p.Projects, proj)
	return proj
}
