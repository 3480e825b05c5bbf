package notification

import "fmt"

func emailBody(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: white; border-radius: 12px; padding: 32px; border: 1px solid #eee;">
		<h2 style="margin-top: 0;">%s</h2>
		<p>%s</p>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">Trip Planner</p>
	</div>
</body>
</html>`, title, body)
}
