package event

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"turnos/common/constant"
	jetstreamMock "turnos/common/jetstream/mocks"
	"turnos/model"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type TurnoEventTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	publisher  *jetstreamMock.MockPublisher
	turnoEvent TurnoEvent
}

func (s *TurnoEventTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.publisher = jetstreamMock.NewMockPublisher(s.ctrl)

	s.turnoEvent = TurnoEvent{
		Publisher: s.publisher,
		PublicURL: "https://turnos.example.gob.mx/",
		Timeout:   10 * time.Second,
	}

	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func (s *TurnoEventTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestTurnoEventTestSuite(t *testing.T) {
	suite.Run(t, new(TurnoEventTestSuite))
}

func eventMessage() model.TicketEventMessage {
	return model.TicketEventMessage{
		ID:             3,
		NumeroTurno:    4821,
		Curp:           "ABCD010101HDFRRL09",
		NombreCompleto: "Ana Pérez López",
		Correo:         "ana@example.com",
		Nivel:          "Primaria",
		Municipio:      "Toluca",
		Asunto:         "Inscripción",
		PdfUrl:         "/static/pdfs/turno_4821.pdf",
	}
}

func (s *TurnoEventTestSuite) TestCreatedHandler() {
	testCases := []struct {
		name        string
		input       []byte
		setupMock   func()
		expectError bool
	}{
		{
			name:  "invalid message is dropped",
			input: []byte("{"),
			setupMock: func() {
			},
		},
		{
			name: "no correo",
			input: func() []byte {
				msg := eventMessage()
				msg.Correo = ""
				b, _ := json.Marshal(msg)
				return b
			}(),
			setupMock: func() {
			},
		},
		{
			name: "publish error",
			input: func() []byte {
				b, _ := json.Marshal(eventMessage())
				return b
			}(),
			setupMock: func() {
				s.publisher.EXPECT().
					Publish(gomock.Any(), constant.SubjectSendEmail, gomock.Any()).
					Return(nil, errors.New("nats: timeout"))
			},
			expectError: true,
		},
		{
			name: "success",
			input: func() []byte {
				b, _ := json.Marshal(eventMessage())
				return b
			}(),
			setupMock: func() {
				s.publisher.EXPECT().
					Publish(gomock.Any(), constant.SubjectSendEmail, gomock.Any()).
					DoAndReturn(func(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
						var email model.SendEmailEventMessage
						s.Require().NoError(json.Unmarshal(payload, &email))
						s.Equal("ana@example.com", email.To)
						s.Equal("Confirmación de turno 4821", email.Subject)
						s.Contains(email.Body, "Estimado(a) Ana Pérez López")
						s.Contains(email.Body, "Número de turno: 4821")
						s.Contains(email.Body, "https://turnos.example.gob.mx/static/pdfs/turno_4821.pdf")
						return &jetstream.PubAck{}, nil
					})
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			tc.setupMock()

			err := s.turnoEvent.CreatedHandler(context.Background(), tc.input)

			if tc.expectError {
				s.Error(err)
			} else {
				s.NoError(err)
			}
		})
	}
}

func (s *TurnoEventTestSuite) TestUpdatedHandler() {
	msg := eventMessage()
	msg.PdfUrl = "https://cdn.example.com/turno_4821_v2.pdf"
	input, _ := json.Marshal(msg)

	s.publisher.EXPECT().
		Publish(gomock.Any(), constant.SubjectSendEmail, gomock.Any()).
		DoAndReturn(func(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
			var email model.SendEmailEventMessage
			s.Require().NoError(json.Unmarshal(payload, &email))
			s.Equal("Actualización de turno 4821", email.Subject)
			s.Contains(email.Body, "Los datos de su turno 4821 fueron actualizados")
			s.Contains(email.Body, "Comprobante actualizado: https://cdn.example.com/turno_4821_v2.pdf")
			return &jetstream.PubAck{}, nil
		})

	s.NoError(s.turnoEvent.UpdatedHandler(context.Background(), input))
}

func (s *TurnoEventTestSuite) TestPdfLink() {
	s.Equal("-", s.turnoEvent.pdfLink(""))
	s.Equal("https://turnos.example.gob.mx/static/a.pdf", s.turnoEvent.pdfLink("/static/a.pdf"))
	s.Equal("https://x/a.pdf", s.turnoEvent.pdfLink("https://x/a.pdf"))
}
