package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Search runs a live search for PHM_QUERY with the moderate preset and
// saves the raw results to papers/search.yaml.
func Search() error {
	mg.Deps(Build, Init)
	query := os.Getenv("PHM_QUERY")
	if query == "" {
		return fmt.Errorf("set PHM_QUERY to the research question")
	}
	return sh.RunV(binPath, "search",
		"--query", query,
		"--preset", "moderate",
		"--save", "papers/search.yaml",
		"--format", "json",
		"--output", "output/search.json",
	)
}

// Filter filters PHM_INPUT (default papers/search.yaml) with the strict
// preset and archives the run.
func Filter() error {
	mg.Deps(Build, Init)
	input := os.Getenv("PHM_INPUT")
	if input == "" {
		input = "papers/search.yaml"
	}
	return sh.RunV(binPath, "filter",
		"--input", input,
		"--preset", "strict",
		"--db", ".phm-curator/runs.db",
		"--metrics-file", "output/phm_curator.prom",
		"--format", "json",
		"--output", "output/filtered.json",
	)
}
