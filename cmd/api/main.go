// @title PatientPal API
// @version 1.0
// @description Resumen de consultas médicas, explicación de términos y plan diario de medicación.
// @BasePath /
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
