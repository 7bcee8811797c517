package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"estoque/config"
	"estoque/internal/pkg/database"
	"estoque/migrations"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Aviso: arquivo .env não encontrado. Usando apenas variáveis do ambiente: %v", err)
	}

	flag.Parse()

	db, err := database.NewPostgresDB(config.DatabaseURL())
	if err != nil {
		log.Fatalf("goose: falha ao conectar ao DB: %v\n", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("goose: falha ao fechar o DB: %v\n", err)
		}
	}()

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"} // 'up' quando nenhum comando é informado
	}

	command := arguments[0]
	var args []string
	if len(arguments) > 1 {
		args = arguments[1:]
	}

	if err := migrations.Run(db, command, args...); err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("goose %s: sucesso\n", command)
}
