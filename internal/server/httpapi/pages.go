package httpapi

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

func loadTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": serviceName,
	})
}

func handleRoot(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login")
}

func handleLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Title": "Gophtasks - Sign in"})
}

func handleTasksPage(c *gin.Context) {
	c.HTML(http.StatusOK, "tasks.html", gin.H{"Title": "Gophtasks - My tasks"})
}
