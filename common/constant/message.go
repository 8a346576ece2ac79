package constant

// Field-level messages shown next to the offending input.
const (
	MsgRequired      = "Campo obligatorio"
	MsgInvalidCurp   = "CURP no válida"
	MsgInvalidPhone  = "Debe tener 10 dígitos"
	MsgInvalidCorreo = "Correo no válida"
	MsgNameRequired  = "Nombre requerido"

	MsgUsernameTooShort = "El nombre de usuario debe tener al menos 4 caracteres"
	MsgInvalidEmail     = "Por favor ingresa un correo electrónico válido"
	MsgPasswordTooShort = "La contraseña debe tener al menos 6 caracteres"
	MsgInvalidRole      = "Rol inválido"
	MsgInvalidStatus    = "Estatus inválido"
)

// Top-level messages.
const (
	MsgBackendFallback  = "Error al procesar la solicitud"
	MsgTransportFailure = "No se pudo comunicar con el servidor"
	MsgTicketNotFound   = "No se encontró el turno"
	MsgBusy             = "Solicitud en proceso"
	MsgNotConfirmed     = "Se requiere confirmación"
	MsgNoLocatedTicket  = "Primero busque su turno"
	MsgKeyChanged       = "La CURP y el número de turno no pueden modificarse"
	MsgInvalidState     = "Operación no permitida en el estado actual"
	MsgValidationFailed = "Validation failed"
	MsgInvalidRequest   = "Invalid request"
	MsgInvalidCategory  = "Catálogo inválido"
)

const AllMunicipios = "todos"
