package envs

// Wall maps, '#' is a wall and '.' is free.

var mapSparse = []string{
	"###############",
	"#........#....#",
	"#.............#",
	"##########....#",
	"#.......####.##",
	"#...#####.....#",
	"#...#.........#",
	"#...#...#.....#",
	"#.......#.....#",
	"#...#...#.....#",
	"###############",
}

var mapDistractive = []string{
	"#######################",
	"#....#....#.#...#...#.#",
	"#..#.#.#..#.#.#.#.#.#.#",
	"#..#.#.#..#.#.#.#.#.#.#",
	"#..#.#.#..#.#.#.#.#.#.#",
	"#..#...#......#...#...#",
	"#######################",
}

var mapMultitask = []string{
	"###################",
	"#.....#.....#.....#",
	"#.....#.....#.....#",
	"#.................#",
	"#.....#.....#.....#",
	"#.....#.....#.....#",
	"###################",
}
