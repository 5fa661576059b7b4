package utils

import (
	"fmt"

	"mgma_back_end/internal/models"
)

// GenerateLicenseDeliveryHTML génère l'email de livraison de clé après paiement
func GenerateLicenseDeliveryHTML(data models.LicenseEmailData) string {
	expiryRow := `<p style="color: #888; font-size: 14px;">Licence à vie — aucune expiration.</p>`
	if data.ExpiresAt != "" {
		expiryRow = fmt.Sprintf(`<p style="color: #888; font-size: 14px;">Expire le : <strong>%s</strong></p>`, data.ExpiresAt)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Votre clé MGMA</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #0f0f13; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: #1a1a22; padding: 30px; border-radius: 10px; color: #eee;">
		<h2 style="color: #7c5cff;">Merci pour votre achat !</h2>
		<p>Votre paiement a bien été reçu. Voici votre clé d'activation :</p>

		<div style="background-color: #101016; border: 1px dashed #7c5cff; border-radius: 8px; padding: 18px; text-align: center; margin: 25px 0;">
			<span style="font-family: monospace; font-size: 20px; letter-spacing: 2px; color: #7c5cff;">%s</span>
		</div>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0; color: #ccc;">
			<tr>
				<td style="padding: 8px 0;">Commande</td>
				<td style="padding: 8px 0; text-align: right;"><strong>%s</strong></td>
			</tr>
			<tr>
				<td style="padding: 8px 0;">Produit</td>
				<td style="padding: 8px 0; text-align: right;"><strong>%s</strong></td>
			</tr>
			<tr>
				<td style="padding: 8px 0;">Durée</td>
				<td style="padding: 8px 0; text-align: right;"><strong>%s</strong></td>
			</tr>
			<tr>
				<td style="padding: 8px 0; border-top: 1px solid #333;">Total payé</td>
				<td style="padding: 8px 0; text-align: right; border-top: 1px solid #333;"><strong>%.2f€</strong></td>
			</tr>
		</table>

		%s

		<p style="color: #888; font-size: 14px;">
			Collez la clé dans le loader pour activer votre accès. Elle est aussi visible
			dans votre espace client, avec un QR code pour l'importer directement.
		</p>

		<p style="margin-top: 30px; color: #666;">
			L'équipe <strong style="color: #7c5cff;">MGMA</strong>
		</p>
	</div>
</body>
</html>`, data.LicenseKey, data.OrderNumber, data.ProductName, data.Duration, data.TotalPaid, expiryRow)
}

// GenerateRefundHTML génère l'email de confirmation de remboursement
func GenerateRefundHTML(orderNumber string, amount float64) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>Remboursement effectué</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #0f0f13; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: #1a1a22; padding: 30px; border-radius: 10px; color: #eee;">
		<h2 style="color: #7c5cff;">Remboursement effectué</h2>
		<p>Votre commande <strong>%s</strong> a été remboursée (%.2f€).</p>
		<p>La licence associée a été révoquée. Le remboursement apparaîtra sur votre relevé sous 5 à 10 jours ouvrés.</p>
		<p style="margin-top: 30px; color: #666;">
			L'équipe <strong style="color: #7c5cff;">MGMA</strong>
		</p>
	</div>
</body>
</html>`, orderNumber, amount)
}
