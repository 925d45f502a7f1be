package goosgimod

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const ivyHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// IvyModule is an Ivy module descriptor as written by IvyExporter.
type IvyModule struct {
	XMLName        xml.Name          `xml:"ivy-module"`
	Version        string            `xml:"version,attr"`
	Info           IvyInfo           `xml:"info"`
	Configurations IvyConfigurations `xml:"configurations"`
	Dependencies   IvyDependencies   `xml:"dependencies"`
}

// IvyInfo identifies the module.
type IvyInfo struct {
	Organisation string `xml:"organisation,attr"`
	Module       string `xml:"module,attr"`
	Revision     string `xml:"revision,attr"`
	Status       string `xml:"status,attr"`
}

// IvyConfigurations declares the compile and default configurations.
type IvyConfigurations struct {
	DefaultConfMapping string    `xml:"defaultconfmapping,attr"`
	Confs              []IvyConf `xml:"conf"`
}

// IvyConf is one configuration.
type IvyConf struct {
	Name    string `xml:"name,attr"`
	Extends string `xml:"extends,attr,omitempty"`
}

// IvyDependencies lists the resolved dependencies.
type IvyDependencies struct {
	Dependency []IvyDependency `xml:"dependency"`
}

// IvyDependency pins one dependency to an exact revision.
type IvyDependency struct {
	Org  string `xml:"org,attr"`
	Name string `xml:"name,attr"`
	Rev  string `xml:"rev,attr"`
	Conf string `xml:"conf,attr"`
}

// NewIvyModule builds the descriptor of b. Every dependency is published
// under the same organisation and mapped compile->default.
func NewIvyModule(b *Bundle, org string, deps []Dependency) *IvyModule {
	m := &IvyModule{
		Version: "2.0",
		Info: IvyInfo{
			Organisation: org,
			Module:       b.Name(),
			Revision:     b.Version().String(),
			Status:       "release",
		},
		Configurations: IvyConfigurations{
			DefaultConfMapping: "default",
			Confs: []IvyConf{
				{Name: "compile"},
				{Name: "default", Extends: "compile"},
			},
		},
	}
	for _, d := range deps {
		m.Dependencies.Dependency = append(m.Dependencies.Dependency, IvyDependency{
			Org:  org,
			Name: d.Name,
			Rev:  d.Version.String(),
			Conf: "compile->default",
		})
	}
	return m
}

// IvyExporter writes Ivy module descriptors named "{name}-{version}.xml".
type IvyExporter struct{}

// FileName returns "{name}-{version}.xml".
func (IvyExporter) FileName(b *Bundle) string {
	return b.Name() + "-" + b.Version().String() + ".xml"
}

// Render returns the indented UTF-8 document for b.
func (IvyExporter) Render(b *Bundle, org string, deps []Dependency) ([]byte, error) {
	body, err := xml.MarshalIndent(NewIvyModule(b, org, deps), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render ivy descriptor for %s: %w", b, err)
	}
	var buf bytes.Buffer
	buf.WriteString(ivyHeader)
	emptyElements.WriteString(&buf, string(body))
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Export writes the descriptor into dir.
func (e IvyExporter) Export(b *Bundle, org string, deps []Dependency, dir string) error {
	data, err := e.Render(b, org, deps)
	if err != nil {
		return err
	}
	return writeDescriptor(dir, e.FileName(b), data)
}

// ParseIvyModule decodes a descriptor written by IvyExporter.
func ParseIvyModule(data []byte) (*IvyModule, error) {
	var m IvyModule
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse ivy descriptor: %w", err)
	}
	return &m, nil
}

// emptyElements collapses the elements encoding/xml writes with an explicit
// end tag into the self-closing form. Attribute values are escaped, so the
// patterns cannot occur inside them.
var emptyElements = strings.NewReplacer(
	"></info>", "/>",
	"></conf>", "/>",
	"></dependency>", "/>",
	"<dependencies></dependencies>", "<dependencies/>",
)

var _ MetadataExporter = IvyExporter{}
