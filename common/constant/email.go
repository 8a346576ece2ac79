package constant

const EmailTurnoConfirmationTemplate = `
Estimado(a) %s,

Su turno ha sido registrado correctamente.

Datos del turno:
------------------------------------------
Número de turno: %d
CURP: %s
Nivel: %s
Municipio: %s
Asunto: %s
------------------------------------------

Puede descargar su comprobante en: %s

Presente este número de turno al acudir a la oficina.

Atentamente,
Atención Ciudadana

Nota: Este es un mensaje automático, por favor no responda a este correo.
`

const EmailTurnoUpdateTemplate = `
Estimado(a) %s,

Los datos de su turno %d fueron actualizados.

Datos del turno:
------------------------------------------
Número de turno: %d
CURP: %s
Nivel: %s
Municipio: %s
Asunto: %s
------------------------------------------

Comprobante actualizado: %s

Si usted no realizó este cambio, acuda a la oficina con su identificación.

Atentamente,
Atención Ciudadana

Nota: Este es un mensaje automático, por favor no responda a este correo.
`
