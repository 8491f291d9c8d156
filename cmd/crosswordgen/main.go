package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/bodul/crossword/internal/aiclue"
	"github.com/bodul/crossword/internal/httpapi"
	"github.com/bodul/crossword/internal/store"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	ctx := context.Background()

	st, err := store.New(os.Getenv("DATA_DIR"))
	if err != nil {
		log.Fatalf("impossible d'initialiser le store : %v", err)
	}

	projectID := os.Getenv("GCP_PROJECT_ID")

	var ai *aiclue.Client
	if projectID != "" {
		var err error
		ai, err = aiclue.NewClient(ctx, projectID, os.Getenv("GCP_REGION"))
		if err != nil {
			log.Fatalf("impossible d'initialiser le client IA : %v", err)
		}
		defer ai.Close()
		log.Printf("client Gemini initialisé (projet: %s)", projectID)
	} else {
		log.Println("GCP_PROJECT_ID non défini — génération de clues IA désactivée")
	}

	srv := httpapi.NewServer(st, ai)

	log.Printf("serveur démarré sur http://localhost:%s", port)
	if err := http.ListenAndServe(":"+port, srv); err != nil {
		log.Fatal(err)
	}
}
