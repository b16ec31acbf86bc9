package mail

import "fmt"

// ActivationSubject is the subject line of the account-activation mail.
const ActivationSubject = "Activa tu cuenta en Gramola"

// ActivationBody builds the HTML body of the activation mail. The link is
// one-time: following it consumes the account's activation token.
func ActivationBody(email, activationURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background-color: #4CAF50; color: white; padding: 20px; text-align: center;">
      <h1>&iexcl;Bienvenido a Gramola!</h1>
    </div>
    <div style="background-color: #f9f9f9; padding: 30px; border: 1px solid #ddd;">
      <p>Gracias por registrarte en Gramola con el email: <strong>%s</strong></p>
      <p>Para activar tu cuenta, por favor haz clic en el siguiente enlace:</p>
      <p style="text-align: center;">
        <a href="%s" style="display: inline-block; padding: 12px 30px; background-color: #4CAF50; color: white; text-decoration: none;">Activar mi cuenta</a>
      </p>
      <p>O copia y pega este enlace en tu navegador:</p>
      <p style="word-break: break-all; background-color: #e9e9e9; padding: 10px;">%s</p>
      <p><strong>Nota:</strong> Este enlace es &uacute;nico y solo puede usarse una vez.</p>
    </div>
    <div style="text-align: center; margin-top: 20px; color: #777; font-size: 12px;">
      <p>Este es un correo autom&aacute;tico, por favor no responder.</p>
    </div>
  </div>
</body>
</html>`, email, activationURL, activationURL)
}
