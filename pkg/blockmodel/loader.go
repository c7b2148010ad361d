package blockmodel

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
)

// Loader reads block models and blockstates from a resource-pack tree rooted
// at the "assets/<namespace>" level (it expects "models/" and "blockstates/"
// directly below the root).
type Loader struct {
	fsys fs.FS

	mu         sync.Mutex
	modelCache map[string]*Model
}

func NewLoader(fsys fs.FS) *Loader {
	return &Loader{
		fsys:       fsys,
		modelCache: make(map[string]*Model),
	}
}

// LoadModel loads a model by name ("block/stone", "stone" or "minecraft:block/stone"),
// merging inherited elements and textures from its parents.
func (l *Loader) LoadModel(name string) (*Model, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadModel(name, 0)
}

func (l *Loader) loadModel(name string, depth int) (*Model, error) {
	if depth > 32 {
		return nil, fmt.Errorf("model parent chain too deep at '%s'", name)
	}
	name = StripNamespace(name)
	if !strings.Contains(name, "/") {
		name = "block/" + name
	}

	if model, ok := l.modelCache[name]; ok {
		return model, nil
	}

	data, err := fs.ReadFile(l.fsys, path.Join("models", name+".json"))
	if err != nil {
		return nil, fmt.Errorf("could not read model file: %w", err)
	}

	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("could not unmarshal model json: %w", err)
	}
	if model.Textures == nil {
		model.Textures = make(map[string]string)
	}

	if model.Parent != "" {
		parentName := StripNamespace(model.Parent)
		if strings.HasPrefix(parentName, "builtin/") {
			l.modelCache[name] = &model
			return &model, nil
		}

		parent, err := l.loadModel(parentName, depth+1)
		if err != nil {
			return nil, fmt.Errorf("could not load parent model '%s': %w", parentName, err)
		}

		if model.AmbientOcclusion == nil {
			model.AmbientOcclusion = parent.AmbientOcclusion
		}
		if len(model.Elements) == 0 {
			// Parents are cached and shared, so the child gets its own copy
			// before texture variables are resolved in place.
			model.Elements = cloneElements(parent.Elements)
		}
		for key, val := range parent.Textures {
			if _, ok := model.Textures[key]; !ok {
				model.Textures[key] = val
			}
		}
	}

	l.resolveTextures(&model)
	l.modelCache[name] = &model
	return &model, nil
}

func (l *Loader) resolveTextures(m *Model) {
	for i := range m.Elements {
		for faceName, face := range m.Elements[i].Faces {
			originalTexture := face.Texture
			resolvedTexture := l.ResolveTexture(originalTexture, m)
			if resolvedTexture != originalTexture {
				face.Texture = resolvedTexture
				m.Elements[i].Faces[faceName] = face
			}
		}
	}
}

// ResolveTexture follows "#var" references through the model's texture map.
// Unresolvable references are returned as-is.
func (l *Loader) ResolveTexture(textureName string, m *Model) string {
	for i := 0; i < 10 && strings.HasPrefix(textureName, "#"); i++ {
		key := strings.TrimPrefix(textureName, "#")
		if resolved, ok := m.Textures[key]; ok {
			textureName = resolved
		} else {
			break
		}
	}
	return textureName
}

func (l *Loader) LoadBlockState(name string) (*BlockState, error) {
	data, err := fs.ReadFile(l.fsys, path.Join("blockstates", StripNamespace(name)+".json"))
	if err != nil {
		return nil, fmt.Errorf("could not read blockstate file: %w", err)
	}

	var blockState BlockState
	if err := json.Unmarshal(data, &blockState); err != nil {
		return nil, fmt.Errorf("could not unmarshal blockstate json: %w", err)
	}

	return &blockState, nil
}

// StripNamespace drops a leading "namespace:" from a resource location.
func StripNamespace(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func cloneElements(src []Element) []Element {
	out := make([]Element, len(src))
	for i, e := range src {
		out[i] = e
		out[i].Faces = make(map[string]Face, len(e.Faces))
		for k, f := range e.Faces {
			out[i].Faces[k] = f
		}
	}
	return out
}
