package constant

const (
	QueueStreamName = "turnos_queue_stream"
)

const (
	AllWildcard   = "events.>"
	TurnoWildcard = "events.turno.>"
	EmailWildcard = "events.email.>"

	SubjectTurnoCreated = "events.turno.created"
	SubjectTurnoUpdated = "events.turno.updated"
	SubjectTurnoStatus  = "events.turno.status"
	SubjectTurnoDeleted = "events.turno.deleted"
	SubjectSendEmail    = "events.email.send"
)
