package main

import (
	goerrors "errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/bentduso/eex/internal/eex"
	ourerrors "github.com/bentduso/eex/internal/errors"
	"github.com/bentduso/eex/internal/workspace"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "eex"

var version string = "0.0.1"
var handler protocol.Handler

var documents = map[string]string{}

func main() {
	commonlog.Configure(1, nil)

	protocol.SetTraceValue(protocol.TraceValueMessage)

	handler = protocol.Handler{
		Initialize:  initialize,
		Initialized: initialized,
		Shutdown:    shutdown,
		SetTrace:    setTrace,
		TextDocumentDidOpen: func(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
			documents[params.TextDocument.URI] = params.TextDocument.Text

			return handleDocument(context, params.TextDocument.URI)
		},
		TextDocumentDidChange: func(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
			content, ok := documents[params.TextDocument.URI]
			if !ok {
				return nil
			}

			for _, change := range params.ContentChanges {
				switch change := change.(type) {
				case protocol.TextDocumentContentChangeEventWhole:
					documents[params.TextDocument.URI] = change.Text

				case protocol.TextDocumentContentChangeEvent:
					startIndex, endIndex := change.Range.IndexesIn(content)
					documents[params.TextDocument.URI] = content[:startIndex] + change.Text + content[endIndex:]
				}
			}

			return handleDocument(context, params.TextDocument.URI)
		},
	}

	server := server.NewServer(&handler, lsName, false)

	server.RunStdio()
}

// handleDocument re-tokenizes a document's in-memory buffer and publishes
// the result as a single diagnostic when it fails. It never attempts
// semantic-token highlighting: eex.Location only carries a line, not a
// column, so there isn't enough position information in a Token to report
// accurate per-token ranges.
func handleDocument(context *glsp.Context, docURI string) error {
	u, err := url.Parse(docURI)
	if err != nil {
		return fmt.Errorf("parse document uri: %w", err)
	}
	if u.Scheme != "file" {
		return fmt.Errorf("invalid document uri scheme %q", u.Scheme)
	}

	contents, ok := documents[docURI]
	if !ok {
		return nil
	}

	fileName := filepath.Base(u.Path)

	ws := workspace.New(filepath.Dir(u.Path), eex.Options{})

	diag := []protocol.Diagnostic{}

	_, err = ws.LoadWithContents(fileName, []byte(contents))
	if err != nil {
		var poserr ourerrors.SituatedErr

		if goerrors.As(err, &poserr) {
			diag = append(diag, protocol.Diagnostic{
				Range: protocol.Range{
					Start: pos(poserr.At()),
					End:   pos(poserr.At()),
				},
				Severity: ptr(protocol.DiagnosticSeverityError),
				Message:  poserr.Unwrap().Error(),
			})
		} else {
			diag = append(diag, protocol.Diagnostic{
				Severity: ptr(protocol.DiagnosticSeverityError),
				Message:  err.Error(),
			})
		}
	}

	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         docURI,
		Diagnostics: diag,
	})

	return nil
}

func initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := handler.CreateServerCapabilities()

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func ptr[T any](v T) *T {
	return &v
}

func pos(l eex.Location) protocol.Position {
	return protocol.Position{
		Line:      uint32(l.Line),
		Character: 0,
	}
}
