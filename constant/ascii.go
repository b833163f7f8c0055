package constant

// AsciiArtLogo is the application banner shown in the root command help.
const AsciiArtLogo = `
  _                        _           _
 | |_ _   _ _ __   ___  __| | ___  ___| | __
 | __| | | | '_ \ / _ \/ _' |/ _ \/ __| |/ /
 | |_| |_| | | | |  __/ (_| |  __/ (__|   <
  \__|\__,_|_| |_|\___|\__,_|\___|\___|_|\_\`
