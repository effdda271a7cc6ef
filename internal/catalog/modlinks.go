package catalog

import (
	"errors"
	"fmt"
	"strings"

	"modkeeper/internal/models"

	"github.com/beevik/etree"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

/**
 * Parse a ModLinks XML document
 * @param {[]byte} data - Document bytes
 * @returns {*models.ModLinks} Manifests in document order
 * @returns {error} ErrInvalidCatalog for malformed documents or manifests
 * @description
 * - Each <Manifest> needs Name, Version and either <Link> or <Links>
 * - <Links> carries one child per OS (Windows, Mac, Linux)
 * - Link URLs may be CDATA, checksums come from the SHA256 attribute
 */
func ParseModLinks(data []byte) (*models.ModLinks, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	root := doc.SelectElement("ModLinks")
	if root == nil {
		return nil, fmt.Errorf("%w: missing <ModLinks> root", ErrInvalidCatalog)
	}

	ml := &models.ModLinks{}
	for i, el := range root.SelectElements("Manifest") {
		m, err := parseManifest(el)
		if err != nil {
			return nil, fmt.Errorf("%w: manifest #%d: %v", ErrInvalidCatalog, i+1, err)
		}
		ml.Manifests = append(ml.Manifests, m)
	}
	return ml, nil
}

func parseManifest(el *etree.Element) (models.Manifest, error) {
	m := models.Manifest{
		Name:        childText(el, "Name"),
		Description: childText(el, "Description"),
		Version:     childText(el, "Version"),
		Repository:  childText(el, "Repository"),
	}
	if m.Name == "" {
		return m, errors.New("missing <Name>")
	}
	if m.Version == "" {
		return m, fmt.Errorf("'%s' has no <Version>", m.Name)
	}

	if link := el.SelectElement("Link"); link != nil {
		m.Links.Single = parseLink(link)
	} else if links := el.SelectElement("Links"); links != nil {
		m.Links.Windows = optionalLink(links, "Windows")
		m.Links.Mac = optionalLink(links, "Mac")
		m.Links.Linux = optionalLink(links, "Linux")
	}
	if l := m.Links.Current(); l == nil || l.URL == "" {
		return m, fmt.Errorf("'%s' has no download link for this platform", m.Name)
	}

	if deps := el.SelectElement("Dependencies"); deps != nil {
		for _, d := range deps.SelectElements("Dependency") {
			if name := strings.TrimSpace(d.Text()); name != "" {
				m.Dependencies = append(m.Dependencies, name)
			}
		}
	}
	return m, nil
}

func parseLink(el *etree.Element) *models.Link {
	return &models.Link{
		URL:    strings.TrimSpace(el.Text()),
		Sha256: strings.TrimSpace(el.SelectAttrValue("SHA256", "")),
	}
}

func optionalLink(parent *etree.Element, tag string) *models.Link {
	el := parent.SelectElement(tag)
	if el == nil {
		return nil
	}
	return parseLink(el)
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}
