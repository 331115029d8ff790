package tui

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"custodyx/internal/types"
)

func (m *Model) onDocumentsKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := m.app.Session
	docs := s.Documents()

	if m.uploadMode {
		switch {
		case key.Matches(msg, m.keys.Enter):
			path := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			m.uploadMode = false
			if path == "" {
				return nil, true
			}
			return m.uploadDocument(path), true
		case key.Matches(msg, m.keys.Back):
			m.uploadMode = false
			m.input.Reset()
			return nil, true
		}
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.docCursor > 0 {
			m.docCursor--
		}
		return nil, true
	case key.Matches(msg, m.keys.Down):
		if m.docCursor < len(docs)-1 {
			m.docCursor++
		}
		return nil, true
	case key.Matches(msg, m.keys.Upload):
		m.uploadMode = true
		m.input.Reset()
		m.input.Placeholder = "Path to the file to upload"
		return nil, true
	case key.Matches(msg, m.keys.Enter):
		if doc := m.currentDocument(); doc != nil && !m.busy {
			m.busy = true
			m.statusText = fmt.Sprintf("Reviewing %s…", doc.Name)
			return tea.Batch(m.analyzeDocCmd(*doc), m.spin.Tick), true
		}
		return nil, true
	case key.Matches(msg, m.keys.Redraft):
		doc := m.currentDocument()
		if doc == nil || m.busy {
			return nil, true
		}
		analysis, ok := m.docAnalyses[doc.ID]
		if !ok {
			m.statusText = "Analyze the document first"
			return nil, true
		}
		m.busy = true
		m.statusText = fmt.Sprintf("Redrafting %s…", doc.Name)
		return tea.Batch(m.redraftCmd(*doc, analysis), m.spin.Tick), true
	case key.Matches(msg, m.keys.Delete):
		if doc := m.currentDocument(); doc != nil {
			if err := s.DeleteDocument(context.Background(), doc.ID); err != nil {
				m.statusText = "Delete failed: " + err.Error()
			} else {
				delete(m.docAnalyses, doc.ID)
				m.statusText = "Document deleted"
				if m.docCursor > 0 {
					m.docCursor--
				}
			}
		}
		return nil, true
	}
	return nil, false
}

func (m *Model) currentDocument() *types.StoredDocument {
	docs := m.app.Session.Documents()
	if m.docCursor < 0 || m.docCursor >= len(docs) {
		return nil
	}
	return &docs[m.docCursor]
}

func (m *Model) uploadDocument(path string) tea.Cmd {
	data, err := os.ReadFile(path)
	if err != nil {
		m.statusText = "Upload failed: " + err.Error()
		return nil
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	name := filepath.Base(path)
	_, err = m.app.Session.AddDocument(context.Background(), name, mimeType, base64.StdEncoding.EncodeToString(data))
	if err != nil {
		m.statusText = "Upload failed: " + err.Error()
		return nil
	}
	m.docCursor = 0
	m.statusText = fmt.Sprintf("Uploaded %s", name)
	return nil
}

func (m *Model) onDocAnalysis(msg docAnalysisMsg) tea.Cmd {
	if !m.app.Session.IsCurrent(msg.gen) {
		return nil
	}
	m.busy = false
	m.statusText = "Ready"
	if msg.err != nil {
		m.statusText = "Review failed: " + msg.err.Error()
		return nil
	}
	m.docAnalyses[msg.docID] = msg.text
	return nil
}

func (m *Model) onRedraft(msg redraftMsg) tea.Cmd {
	if !m.app.Session.IsCurrent(msg.gen) {
		return nil
	}
	m.busy = false
	m.statusText = "Ready"
	if msg.err != nil {
		m.statusText = "Redraft failed: " + msg.err.Error()
		return nil
	}

	title := "Redrafted Document"
	for _, d := range m.app.Session.Documents() {
		if d.ID == msg.docID {
			title = "Redraft of " + d.Name
			break
		}
	}
	if _, err := m.app.Session.AddDraft(context.Background(), title, msg.text, types.DraftUploadedDocument, ""); err != nil {
		m.statusText = "Save failed: " + err.Error()
		return nil
	}
	m.statusText = fmt.Sprintf("Saved %q to drafted documents", title)
	return nil
}

func (m *Model) viewDocuments() string {
	docs := m.app.Session.Documents()
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("Document Library"))
	b.WriteString("\n\n")

	if m.uploadMode {
		b.WriteString(m.theme.Footer.Render("Enter the path of the file to upload below."))
		b.WriteString("\n\n")
	}

	if len(docs) == 0 {
		b.WriteString(m.theme.Footer.Render("No documents uploaded. Press u to add a court order, message export or other file."))
		return b.String()
	}

	for i, d := range docs {
		cursor := "  "
		if i == m.docCursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s  %s  %s", cursor, d.CreatedAt.Format("1/2/2006"), d.Name, m.theme.Footer.Render(d.MimeType))
		if i == m.docCursor {
			line = m.theme.CardTitle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")

		if i == m.docCursor {
			if analysis, ok := m.docAnalyses[d.ID]; ok {
				b.WriteString("\n")
				b.WriteString(m.theme.CardTitle.Render("Review"))
				b.WriteString("\n")
				b.WriteString(m.md.Render(analysis))
				b.WriteString("\n")
				b.WriteString(m.theme.Footer.Render("r drafts an improved version from this review"))
				b.WriteString("\n\n")
			}
		}
	}
	return b.String()
}
