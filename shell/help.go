package shell

const usage = `Commands:
  new [pvp|pvb|bvb]     start a game (default pvb, you play dark)
  move <sq>, <sq>       play a move during your turn, e.g. "d3"
  pass                  pass, only allowed without a legal move
  hint                  suggest a move for the side to move
  moves                 list the legal moves
  board                 show the board
  load <8 rows> <side>  set the starting position of the next game,
                        rows use X, O and ., side is dark or light
  history [n]           show the last n saved games (default 10)
  help                  show this message
  exit                  leave`
