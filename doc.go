// Copyright 2023 uhppoted@twyst.co.za. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package reagents-sheets renders the reagent inventory stored in a Firebase Realtime Database as a
formatted Google Sheets worksheet.

reagents-sheets can be used from the command line but is really intended to be run from a cron job to keep
the laboratory reagent control sheet in step with the records captured in Firebase. Every run fetches the
complete reagents document and rebuilds the worksheet from scratch.

reagents-sheets supports the following commands:

  - render, to fetch the reagents from Firebase and rewrite a Google Sheets worksheet
  - export, to fetch the reagents from Firebase and save them as an Excel workbook or TSV file
  - get, to download the rendered worksheet table as a TSV file
  - authorise, to authorise application access to the Google Sheets worksheet
  - version, to display the current version
*/
package sheets
