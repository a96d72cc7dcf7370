package telegram

import (
	"fmt"
	"net/url"
	"strings"

	"nail-studio-bot/internal/domain/entity"
)

const (
	msgLocked = `🔒 Acceso Salón

Introduce el código del salón para continuar.`

	msgWelcome = `💅 NailExpert Studio

Envía el nombre de la clienta y después una foto de su mano.
Te devolveré su perfil cromático, tres diseños recomendados y el probador virtual.

📋 Comandos:
/nueva — nueva consulta
/cliente <nombre> — indicar la clienta
/compartir — reenviar la asesoría
/help — ayuda
/salir — cerrar sesión`

	msgHelp = `ℹ️ Cómo usar el bot:

1️⃣ Escribe el nombre de la clienta (opcional)
2️⃣ Envía una foto de la mano, desde la cámara o la galería
3️⃣ Recibirás la paleta, el diagnóstico y los diseños aplicados sobre su mano

💡 Recomendaciones:
• Buena luz natural, sin reflejos
• Fondo liso
• Mano completa y enfocada

📋 Comandos:
/nueva — nueva consulta
/cliente <nombre> — indicar la clienta
/compartir — reenviar la asesoría
/salir — cerrar sesión`

	msgWrongCode       = "❌ Código incorrecto. Verifica con el administrador."
	msgUnlocked        = "✅ Acceso concedido."
	msgLoggedOut       = "👋 Sesión cerrada. Introduce el código del salón para volver a entrar."
	msgNewClient       = "👤 Nueva clienta: escribe su nombre o envía directamente la foto de la mano."
	msgAwaitingPhoto   = "📸 Envía una foto de la mano de %s."
	msgProcessing      = "⏳ Elaborando propuesta para %s..."
	msgBusy            = "⏳ Todavía estoy analizando la foto anterior. Si no llega, usa /nueva."
	msgAnalysisError   = "⚠️ Error analizando la imagen. Intenta de nuevo."
	msgQualityError    = "⚠️ No he podido usar esta foto. Prueba con más luz, sin reflejos y con la mano enfocada."
	msgNoResult        = "No hay ninguna asesoría activa. Envía una foto para empezar."
	msgUnknownCommand  = "❓ Comando desconocido. Usa /help para ver la ayuda."
	msgClientNameEmpty = "Escribe el nombre después del comando, por ejemplo: /cliente Lucía"
	msgShareButton     = "Enviar asesoría a clienta"
	msgNextConsult     = "🔄 Para otra clienta usa /nueva."

	defaultClientName = "Clienta"
	defaultClientRef  = "la clienta"
)

// formatDiagnosis renders the palette, the explanation and the designs.
func formatDiagnosis(clientName string, result *entity.NailAnalysisResult) string {
	var sb strings.Builder

	sb.WriteString("💅 Diagnóstico Personalizado\n")
	sb.WriteString(nameOr(clientName, defaultClientName))
	sb.WriteString("\n\n🎨 Perfil Cromático\n")
	for _, c := range result.Colors {
		sb.WriteString("• ")
		sb.WriteString(c)
		sb.WriteString("\n")
	}

	if result.Explanation != "" {
		sb.WriteString("\n📝 Diagnóstico del Experto\n«")
		sb.WriteString(result.Explanation)
		sb.WriteString("»\n")
	}

	sb.WriteString("\n✨ Diseños Recomendados\n")
	for i, name := range result.DesignNames {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, name)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// previewCaption labels a try-on preview with its own design name.
func previewCaption(index int, preview entity.DesignPreview) string {
	return fmt.Sprintf("Estilo sugerido %d: %s", index+1, preview.DesignName)
}

// shareMessage is the text sent to the client over WhatsApp.
func shareMessage(clientName string, result *entity.NailAnalysisResult) string {
	return "✨ *Asesoría NailExpert Studio* ✨\n\n" +
		"Hola " + nameOr(clientName, defaultClientName) + ", aquí tienes tu diagnóstico personalizado:\n\n" +
		"🎨 *Tus Colores Ideales:* " + strings.Join(result.Colors, ", ") + "\n\n" +
		"💅 *Diseños Recomendados:* " + strings.Join(result.DesignNames, ", ") + "\n\n" +
		"📝 *Nota del Experto:* " + result.Explanation + "\n\n" +
		"¡Te esperamos pronto para lucir estos diseños!"
}

// shareLink opens WhatsApp with the share message prefilled.
func shareLink(text string) string {
	return "https://wa.me/?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

func nameOr(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}
