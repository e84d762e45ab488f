package coordinator

import (
	"bufio"
	"context"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxEventSize = 1 << 20

// StreamReader lê eventos de progresso de um corpo text/event-stream
type StreamReader struct {
	scanner *bufio.Scanner
}

func NewStreamReader(r io.Reader) *StreamReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	return &StreamReader{scanner: scanner}
}

// Next retorna o próximo evento. Comentários (heartbeat) e mensagens que não
// são JSON válido são ignorados. Retorna io.EOF quando o stream termina.
func (s *StreamReader) Next() (domain.ProgressEvent, error) {
	var data []string

	for s.scanner.Scan() {
		line := strings.TrimRight(s.scanner.Text(), "\r")

		switch {
		case line == "":
			if len(data) == 0 {
				continue
			}
			payload := strings.Join(data, "\n")
			data = data[:0]

			var event domain.ProgressEvent
			if err := json.Unmarshal([]byte(payload), &event); err != nil {
				log.L.WithError(err).Warn("Evento de progresso inválido ignorado")
				continue
			}
			return event, nil
		case strings.HasPrefix(line, ":"):
			continue
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}

	if err := s.scanner.Err(); err != nil {
		return domain.ProgressEvent{}, err
	}
	return domain.ProgressEvent{}, io.EOF
}

// Follow repassa os eventos do stream ao coordenador até o stream terminar
// ou o contexto ser cancelado. O callback opcional recebe cada evento.
func Follow(ctx context.Context, r io.Reader, c *Coordinator, onEvent func(domain.ProgressEvent)) error {
	reader := NewStreamReader(r)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if onEvent != nil {
			onEvent(event)
		}
		c.Handle(event)
	}
}
