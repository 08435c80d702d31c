package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

const latestConfigVersion = 1

// migration is a named config upgrade step applied to the parsed
// config.yml mapping.
type migration struct {
	version int
	name    string
	run     func(root *yaml.Node) error
}

var migrations = []migration{
	{version: 1, name: "rename_legacy_keys", run: renameLegacyKeys},
}

// migrateConfig runs all pending migrations on dir/config.yml.
// Editing goes through yaml.Node so user comments survive.
func migrateConfig(dir string) error {
	path := filepath.Join(dir, configFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		fmt.Println("keylog: no config.yml, nothing to migrate")
		return nil
	}
	if err != nil {
		return errors.Trace(err)
	}

	out, changed, err := migrateDocument(data)
	if err != nil {
		return errors.Annotatef(err, "migrate %s", path)
	}
	if !changed {
		fmt.Println("keylog: config already up to date")
		return nil
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return errors.Trace(err)
	}
	fmt.Println("keylog: migration complete")
	return nil
}

func migrateDocument(data []byte) ([]byte, bool, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, false, errors.Annotate(err, "parse config.yml")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		out := []byte(fmt.Sprintf("config_version: %d\n", latestConfigVersion))
		return out, true, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, false, errors.New("config.yml root is not a mapping")
	}

	current := 0
	if v := mappingValue(root, "config_version"); v != nil {
		n, err := strconv.Atoi(v.Value)
		if err != nil {
			return nil, false, errors.Annotate(err, "config_version")
		}
		current = n
	}
	if current >= latestConfigVersion {
		return data, false, nil
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		fmt.Printf("keylog: running migration %d (%s)\n", m.version, m.name)
		if err := m.run(root); err != nil {
			return nil, false, errors.Annotatef(err, "migration %d (%s)", m.version, m.name)
		}
	}
	setConfigVersion(root, latestConfigVersion)

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, false, errors.Annotate(err, "marshal config.yml")
	}
	return out, true, nil
}

// renameLegacyKeys turns `logfile: x` into `file: x` and a scalar
// `device: /dev/input/eventN` into a one element `devices` list.
func renameLegacyKeys(root *yaml.Node) error {
	if i := mappingIndex(root, "logfile"); i >= 0 {
		if mappingIndex(root, "file") >= 0 {
			return errors.New("both logfile and file are set, remove one")
		}
		root.Content[i].Value = "file"
	}

	if i := mappingIndex(root, "device"); i >= 0 {
		if mappingIndex(root, "devices") >= 0 {
			return errors.New("both device and devices are set, remove one")
		}
		val := root.Content[i+1]
		root.Content[i].Value = "devices"
		if val.Kind == yaml.ScalarNode {
			root.Content[i+1] = &yaml.Node{
				Kind:    yaml.SequenceNode,
				Tag:     "!!seq",
				Content: []*yaml.Node{val},
			}
		}
	}
	return nil
}

func setConfigVersion(root *yaml.Node, version int) {
	s := strconv.Itoa(version)
	if v := mappingValue(root, "config_version"); v != nil {
		v.Value = s
		v.Tag = "!!int"
		return
	}
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: "config_version", Tag: "!!str"}
	valNode := &yaml.Node{Kind: yaml.ScalarNode, Value: s, Tag: "!!int"}
	root.Content = append([]*yaml.Node{keyNode, valNode}, root.Content...)
}

func mappingIndex(root *yaml.Node, key string) int {
	for i := 0; i < len(root.Content)-1; i += 2 {
		if root.Content[i].Value == key {
			return i
		}
	}
	return -1
}

func mappingValue(root *yaml.Node, key string) *yaml.Node {
	if i := mappingIndex(root, key); i >= 0 {
		return root.Content[i+1]
	}
	return nil
}
