package main

import (
	"os"

	"g4boot/board"
	"g4boot/errcode"
)

// loadBoards returns the built-in boards followed by those from the -f file.
func loadBoards() ([]board.Board, error) {
	boards := append([]board.Board(nil), board.Known...)
	if boardsFile == "" {
		return boards, nil
	}
	f, err := os.Open(boardsFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	extra, err := board.Load(f)
	if err != nil {
		return nil, err
	}
	return append(boards, extra...), nil
}

// pickBoard resolves --board against the known and loaded boards.
func pickBoard() (board.Board, error) {
	if boardName == "" {
		return board.Selected, nil
	}
	boards, err := loadBoards()
	if err != nil {
		return board.Board{}, err
	}
	for _, b := range boards {
		if b.Name == boardName {
			return b, nil
		}
	}
	return board.Board{}, errcode.New(errcode.UnknownBoard, "g4sim", boardName)
}
