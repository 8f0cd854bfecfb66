package app

// MinPlayersToStartGame defines the minimum number of occupied seats required to start a game.
const MinPlayersToStartGame = 2

// MaxPlayers is the number of seats at the table.
const MaxPlayers = 4
