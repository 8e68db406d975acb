package main

import (
	"maps"
	"os"
	"slices"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/option"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/repository"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/storage"
)

type itemsFile struct {
	Items []any          `yaml:"items"`
	Named map[string]any `yaml:"named,omitempty"`
}

func readItemsFile(path string) (*itemsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read items")
	}
	file, err := parseItems(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return file, nil
}

func parseItems(data []byte) (*itemsFile, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	file := &itemsFile{}
	if len(doc.Content) == 0 {
		return file, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		if err := root.Decode(&file.Items); err != nil {
			return nil, err
		}
		return file, nil
	}
	if err := root.Decode(file); err != nil {
		return nil, err
	}
	return file, nil
}

// load adds plain items first, then named items in name order.
func (f *itemsFile) load(repo *repository.DataRepository) {
	for _, item := range f.Items {
		repo.AddItem(item)
	}
	for _, name := range slices.Sorted(maps.Keys(f.Named)) {
		repo.SetNamedItem(name, f.Named[name])
	}
}

// snapshot rebuilds the file layout from the storage contents. Named slots
// are recognised by handle, so a plain item equal to a named one is kept.
func (f *itemsFile) snapshot(store storage.DataStorage) *itemsFile {
	result := &itemsFile{Items: []any{}}
	named := map[storage.Handle]struct{}{}
	for _, name := range slices.Sorted(maps.Keys(f.Named)) {
		entry, ok := store.NamedEntry(name)
		if !ok {
			continue
		}
		if result.Named == nil {
			result.Named = map[string]any{}
		}
		result.Named[name] = entry.Item
		named[entry.Handle] = struct{}{}
	}
	for _, entry := range store.Entries() {
		if _, ok := named[entry.Handle]; !ok {
			result.Items = append(result.Items, entry.Item)
		}
	}
	return result
}

func (f *itemsFile) marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

func writeItemsFile(path string, f *itemsFile) error {
	data, err := f.marshal()
	if err != nil {
		return errors.Wrap(err, "encode items")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write items")
}

// copyOnWriteMapAccessor makes decoded YAML mappings writable. A write
// clones the mapping so the repository replaces the stored item.
type copyOnWriteMapAccessor struct{}

func (copyOnWriteMapAccessor) Supports(item any) bool {
	_, ok := item.(map[string]any)
	return ok
}

func (copyOnWriteMapAccessor) Get(item any, name string) (option.Option[any], error) {
	m, ok := item.(map[string]any)
	if !ok {
		return option.Nothing[any](), errors.Errorf("inmemq: %T is not a mapping", item)
	}
	v, found := m[name]
	return option.Of(v, found), nil
}

func (copyOnWriteMapAccessor) Set(item any, name string, value any) (any, bool, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return item, false, errors.Errorf("inmemq: %T is not a mapping", item)
	}
	clone := maps.Clone(m)
	if clone == nil {
		clone = map[string]any{}
	}
	clone[name] = value
	return clone, true, nil
}
