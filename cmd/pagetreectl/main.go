// pagetreectl is a small interactive REPL over a single table file,
// grounded on vchandela-ddia/btree/cli's SET/GET command loop — DEL is
// dropped since this tree never implements deletion.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"pagetree/bplustree"
	"pagetree/table"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: pagetreectl <table-file>")
		os.Exit(1)
	}
	path := os.Args[1]

	h, err := table.OpenTable(path)
	if err != nil {
		log.Fatalf("pagetreectl: open %s: %v", path, err)
	}
	defer h.Close()

	tree := bplustree.New(h)
	printHelp()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		process(tree, scanner.Text())
		fmt.Print("> ")
	}
}

func printHelp() {
	fmt.Println(`pagetreectl

Available commands:
  SET <key> <value>   insert a key/value pair
  GET <key>            retrieve the value for a key
  EXIT                 terminate this session`)
}

func process(tree *bplustree.Tree, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch strings.ToLower(fields[0]) {
	case "set":
		processSet(tree, fields[1:])
	case "get":
		processGet(tree, fields[1:])
	case "exit":
		os.Exit(0)
	default:
		fmt.Printf("unknown command %q\n", fields[0])
	}
}

func processSet(tree *bplustree.Tree, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: SET <key> <value>")
		return
	}
	inserted, err := tree.Insert([]byte(args[0]), []byte(args[1]))
	if err != nil {
		log.Printf("pagetreectl: insert %q: %v", args[0], err)
		return
	}
	if !inserted {
		fmt.Println("key already exists")
		return
	}
	fmt.Println("ok")
}

func processGet(tree *bplustree.Tree, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: GET <key>")
		return
	}
	value, found, err := tree.Search([]byte(args[0]))
	if err != nil {
		log.Printf("pagetreectl: search %q: %v", args[0], err)
		return
	}
	if !found {
		fmt.Println("key not found")
		return
	}
	fmt.Println(string(value))
}
