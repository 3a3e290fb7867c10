package parser

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"
)

// ContainerKind classifies the on-disk container of a workbook file.
type ContainerKind int

const (
	// ContainerOOXML is a plain zip-based xlsx package.
	ContainerOOXML ContainerKind = iota
	// ContainerEncrypted is a password-protected xlsx wrapped in a compound file.
	ContainerEncrypted
	// ContainerLegacy is a BIFF .xls workbook.
	ContainerLegacy
	// ContainerUnknown is anything else.
	ContainerUnknown
)

// ContainerInfo describes a workbook file container.
type ContainerInfo struct {
	Kind ContainerKind
	// Title is the document title from the OLE summary information, if any.
	Title string
}

var (
	cfbSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	zipSignature = []byte("PK\x03\x04")
)

// SniffContainer inspects the first bytes of a file, and the stream directory of
// compound files, to tell xlsx packages from encrypted and legacy workbooks.
func SniffContainer(path string) (ContainerInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ContainerInfo{}, err
	}
	defer f.Close()

	head := make([]byte, len(cfbSignature))
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return ContainerInfo{}, err
	}
	head = head[:n]

	switch {
	case bytes.HasPrefix(head, zipSignature):
		return ContainerInfo{Kind: ContainerOOXML}, nil
	case !bytes.Equal(head, cfbSignature):
		return ContainerInfo{Kind: ContainerUnknown}, nil
	}

	doc, err := mscfb.New(f)
	if err != nil {
		return ContainerInfo{}, err
	}

	info := ContainerInfo{Kind: ContainerUnknown}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch entry.Name {
		case "EncryptedPackage":
			info.Kind = ContainerEncrypted
		case "Workbook", "Book":
			if info.Kind != ContainerEncrypted {
				info.Kind = ContainerLegacy
			}
		case "\x05SummaryInformation":
			info.Title = summaryTitle(doc)
		}
	}
	return info, nil
}

// summaryTitle reads the Title property from the current summary information stream.
func summaryTitle(r io.Reader) string {
	props := msoleps.New()
	if err := props.Reset(r); err != nil {
		return ""
	}
	for _, prop := range props.Property {
		if prop.Name == "Title" {
			return strings.TrimSpace(strings.Trim(prop.String(), "\x00"))
		}
	}
	return ""
}
