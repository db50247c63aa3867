// Package poster composes advertising posters from artwork and metadata.
//
// A poster is built by a [Session], one per render, in a fixed sequence:
//
//  1. A background: [Session.CreateCanvas] places scaled artwork on a panel
//     image (framed mode); [Session.CreateColorCanvas] builds a blurred,
//     dithered wash from the artwork and fades a sharp copy into it
//     (ambient mode). Both reset the layout cursor to the origin.
//  2. [Session.DrawLogoOrTitle]: the logo, cropped and sized by aspect
//     class and recoloured white when it is too dark, or the title text.
//  3. [Session.DrawTags]: year, genres, runtime and rating on one line,
//     centred under a wider logo.
//  4. [Session.DrawSummary]: the overview, wrapped by pixel width or by
//     character count.
//  5. [Session.DrawFooter]: a label followed by a badge image.
//
// [Session.Compose] runs the whole sequence; [Session.Save] and
// [Session.Bytes] encode the result as JPEG.
//
// # Measuring text
//
// Font metrics describe the em box, not the painted glyphs. Layout decisions
// that must look centred use [MeasureInk], which draws the text offscreen
// with the same shadow and fill passes used on the poster and returns the
// bounds of the painted pixels.
//
// # Concurrency
//
// Sessions are independent. Shared inputs (the asset library and its fonts)
// are only read; every image a session produces is a fresh copy.
package poster
