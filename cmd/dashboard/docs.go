package main

//go:generate swag init -g cmd/dashboard/main.go -o docs

// @title           Trading Dashboard API
// @version         0.1.0
// @description     Decision analytics, threshold configs, and live portfolio state.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
