// Package render turns match state into console text and parses console
// commands.
//
// Coordinates are two letters, row first: "BD" is row 1, column 3. A
// trailing '+' turns a shot into a mark ("BD+"). Boards print with letter
// axes:
//
//	   A B C D
//	  ________
//	A| _ _ _ _
//	B| _ P P _
//
// Ship boards use P, S, D, B and C for intact segments, x for hit segments
// and _ for water. Shot boards use _ for no shot, o for a mark, O for a miss
// and X for a hit.
package render
